package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// AddClass creates a class with an empty roster regardless of what the caller
// supplied: enrolled and students only ever change through Enroll/Unenroll.
func (s *Service) AddClass(ctx context.Context, class Class) (created Class, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_class", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if class.ID == "" {
		class.ID = newID()
	}
	class.Students = []string{}
	class.Enrolled = 0
	if class.Instructors == nil {
		class.Instructors = []string{}
	}

	next := s.st.clone()
	next.classes = append(next.classes, cloneClass(class))
	changes := []Change{{Entity: EntityClass, Action: ActionCreate, After: cloneClass(class)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(class.ID, class)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionClasses, rec)
	})
	if err != nil {
		return Class{}, err
	}
	return cloneClass(class), nil
}

// UpdateClass merges the partial update over the stored class.
func (s *Service) UpdateClass(ctx context.Context, id string, upd domain.ClassUpdate) (updated Class, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_class", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.classIndex(id)
	if idx < 0 {
		return Class{}, ErrNotFound{Entity: EntityClass, ID: id}
	}

	class := cloneClass(s.st.classes[idx])
	before := cloneClass(class)
	if upd.Name != nil {
		class.Name = *upd.Name
	}
	if upd.Instructors != nil {
		class.Instructors = append([]string(nil), upd.Instructors...)
	}
	if upd.Capacity != nil {
		class.Capacity = *upd.Capacity
	}

	return s.commitClass(ctx, idx, before, class)
}

// RemoveClass hard-deletes a class.
func (s *Service) RemoveClass(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_class", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.classIndex(id)
	if idx < 0 {
		return ErrNotFound{Entity: EntityClass, ID: id}
	}

	before := cloneClass(s.st.classes[idx])
	next := s.st.clone()
	next.classes = append(next.classes[:idx], next.classes[idx+1:]...)
	changes := []Change{{Entity: EntityClass, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionClasses, id)
	})
}

// Enroll adds a member id to a class roster. Enrolling an id already on the
// roster is a no-op. The capacity rule rejects the commit when the roster
// would exceed capacity and over-enrollment is off.
func (s *Service) Enroll(ctx context.Context, classID, memberID string) (updated Class, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "enroll", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.classIndex(classID)
	if idx < 0 {
		return Class{}, ErrNotFound{Entity: EntityClass, ID: classID}
	}

	class := cloneClass(s.st.classes[idx])
	for _, id := range class.Students {
		if id == memberID {
			return class, nil
		}
	}
	before := cloneClass(class)
	// Students and Enrolled are written together, never independently.
	class.Students = append(class.Students, memberID)
	class.Enrolled = len(class.Students)

	return s.commitClass(ctx, idx, before, class)
}

// Unenroll removes a member id from a class roster; absent ids are a no-op.
func (s *Service) Unenroll(ctx context.Context, classID, memberID string) (updated Class, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "unenroll", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.classIndex(classID)
	if idx < 0 {
		return Class{}, ErrNotFound{Entity: EntityClass, ID: classID}
	}

	class := cloneClass(s.st.classes[idx])
	found := -1
	for i, id := range class.Students {
		if id == memberID {
			found = i
			break
		}
	}
	if found < 0 {
		return class, nil
	}
	before := cloneClass(class)
	class.Students = append(class.Students[:found], class.Students[found+1:]...)
	class.Enrolled = len(class.Students)

	return s.commitClass(ctx, idx, before, class)
}

func (s *Service) classIndex(id string) int {
	for i, c := range s.st.classes {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// commitClass persists a single mutated class and swaps it into the mirror.
// Callers hold s.mu.
func (s *Service) commitClass(ctx context.Context, idx int, before, class Class) (Class, error) {
	next := s.st.clone()
	next.classes[idx] = cloneClass(class)
	changes := []Change{{Entity: EntityClass, Action: ActionUpdate, Before: before, After: cloneClass(class)}}
	err := s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(class.ID, class)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionClasses, rec)
	})
	if err != nil {
		return Class{}, err
	}
	return cloneClass(class), nil
}
