package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// AddStaff creates a staff record. The taught-classes counter starts at zero.
func (s *Service) AddStaff(ctx context.Context, member StaffMember) (created StaffMember, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_staff", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ID == "" {
		member.ID = newID()
	}
	member.Classes = 0
	member.Archived = false

	next := s.st.clone()
	next.staff = append(next.staff, member)
	next.activeStaff = append(next.activeStaff, member)
	changes := []Change{{Entity: EntityStaff, Action: ActionCreate, After: member}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionStaff, rec)
	})
	if err != nil {
		return StaffMember{}, err
	}
	return member, nil
}

// UpdateStaff merges the partial update over the stored record. The archived
// flag only changes through ArchiveStaff and UnarchiveStaff.
func (s *Service) UpdateStaff(ctx context.Context, id string, upd domain.StaffUpdate) (updated StaffMember, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_staff", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.staffIndex(id)
	if idx < 0 {
		return StaffMember{}, ErrNotFound{Entity: EntityStaff, ID: id}
	}

	member := s.st.staff[idx]
	before := member
	if upd.Name != nil {
		member.Name = *upd.Name
	}
	if upd.Role != nil {
		member.Role = *upd.Role
	}
	if upd.Email != nil {
		member.Email = *upd.Email
	}
	if upd.Classes != nil {
		member.Classes = *upd.Classes
	}

	next := s.st.clone()
	next.staff[idx] = member
	replaceActiveStaff(next.activeStaff, member)
	changes := []Change{{Entity: EntityStaff, Action: ActionUpdate, Before: before, After: member}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionStaff, rec)
	})
	if err != nil {
		return StaffMember{}, err
	}
	return member, nil
}

// ArchiveStaff soft-deletes a staff record; archiving twice is an idempotent
// no-op with no persistence write.
func (s *Service) ArchiveStaff(ctx context.Context, id string) (archived StaffMember, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "archive_staff", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.staffIndex(id)
	if idx < 0 {
		return StaffMember{}, ErrNotFound{Entity: EntityStaff, ID: id}
	}
	member := s.st.staff[idx]
	if member.Archived {
		return member, nil
	}
	before := member
	member.Archived = true

	next := s.st.clone()
	next.staff[idx] = member
	next.activeStaff = removeActiveStaff(next.activeStaff, id)
	changes := []Change{{Entity: EntityStaff, Action: ActionUpdate, Before: before, After: member}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionStaff, rec)
	})
	if err != nil {
		return StaffMember{}, err
	}
	return member, nil
}

// UnarchiveStaff re-admits an archived staff record to the active view,
// appended at the end. Unarchiving an active record is a no-op.
func (s *Service) UnarchiveStaff(ctx context.Context, id string) (restored StaffMember, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "unarchive_staff", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.staffIndex(id)
	if idx < 0 {
		return StaffMember{}, ErrNotFound{Entity: EntityStaff, ID: id}
	}
	member := s.st.staff[idx]
	if !member.Archived {
		return member, nil
	}
	before := member
	member.Archived = false

	next := s.st.clone()
	next.staff[idx] = member
	next.activeStaff = append(next.activeStaff, member)
	changes := []Change{{Entity: EntityStaff, Action: ActionUpdate, Before: before, After: member}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionStaff, rec)
	})
	if err != nil {
		return StaffMember{}, err
	}
	return member, nil
}

func (s *Service) staffIndex(id string) int {
	for i, m := range s.st.staff {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func replaceActiveStaff(active []StaffMember, member StaffMember) {
	for i, m := range active {
		if m.ID == member.ID {
			active[i] = member
			return
		}
	}
}

func removeActiveStaff(active []StaffMember, id string) []StaffMember {
	for i, m := range active {
		if m.ID == id {
			return append(active[:i], active[i+1:]...)
		}
	}
	return active
}
