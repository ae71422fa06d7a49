package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// AddMember creates a member with a generated id, defaulted status and
// join/last-visit dates, and a derived age when a birth date is supplied.
func (s *Service) AddMember(ctx context.Context, member Member) (created Member, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_member", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if member.ID == "" {
		member.ID = newID()
	}
	if member.Status == "" {
		member.Status = domain.MemberStatusActive
	}
	if member.JoinDate.IsZero() {
		member.JoinDate = now
	}
	if member.LastVisit.IsZero() {
		member.LastVisit = now
	}
	if member.BirthDate != nil {
		age := ageAt(*member.BirthDate, now)
		member.Age = &age
	}

	next := s.st.clone()
	next.members = append(next.members, cloneMember(member))
	changes := []Change{{Entity: EntityMember, Action: ActionCreate, After: cloneMember(member)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionMembers, rec)
	})
	if err != nil {
		return Member{}, err
	}
	return cloneMember(member), nil
}

// UpdateMember merges the partial update over the stored member. A changed
// birth date re-derives the cached age.
func (s *Service) UpdateMember(ctx context.Context, id string, upd domain.MemberUpdate) (updated Member, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_member", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.st.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Member{}, ErrNotFound{Entity: EntityMember, ID: id}
	}

	member := cloneMember(s.st.members[idx])
	before := cloneMember(member)
	if upd.Name != nil {
		member.Name = *upd.Name
	}
	if upd.Email != nil {
		member.Email = *upd.Email
	}
	if upd.Phone != nil {
		member.Phone = *upd.Phone
	}
	if upd.MembershipType != nil {
		member.MembershipType = *upd.MembershipType
	}
	if upd.Status != nil {
		member.Status = *upd.Status
	}
	if upd.LastVisit != nil {
		member.LastVisit = *upd.LastVisit
	}
	if upd.BirthDate != nil {
		bd := *upd.BirthDate
		member.BirthDate = &bd
		age := ageAt(bd, s.nowFn())
		member.Age = &age
	}

	next := s.st.clone()
	next.members[idx] = cloneMember(member)
	changes := []Change{{Entity: EntityMember, Action: ActionUpdate, Before: before, After: cloneMember(member)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(member.ID, member)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionMembers, rec)
	})
	if err != nil {
		return Member{}, err
	}
	return cloneMember(member), nil
}

// RemoveMember hard-deletes a member. Members have no archive tier.
func (s *Service) RemoveMember(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_member", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.st.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound{Entity: EntityMember, ID: id}
	}

	before := cloneMember(s.st.members[idx])
	next := s.st.clone()
	next.members = append(next.members[:idx], next.members[idx+1:]...)
	changes := []Change{{Entity: EntityMember, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionMembers, id)
	})
}
