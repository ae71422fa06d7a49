package core

import (
	"context"
	"strings"
	"time"

	"gymcore/pkg/domain"
)

// AddWaiver creates a waiver record. Status defaults to pending. When the
// auto-create policy flag is on and no member shares the waiver's name, a
// member is created in the same commit; auto-creation is skipped silently when
// the demo member cap is already reached so the waiver itself still lands.
func (s *Service) AddWaiver(ctx context.Context, waiver WaiverItem) (created WaiverItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_waiver", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if waiver.ID == "" {
		waiver.ID = newID()
	}
	if waiver.Status == "" {
		waiver.Status = domain.WaiverStatusPending
	}
	waiver.Archived = false

	next := s.st.clone()
	next.waivers = append(next.waivers, cloneWaiver(waiver))
	next.activeWaivers = append(next.activeWaivers, cloneWaiver(waiver))
	changes := []Change{{Entity: EntityWaiver, Action: ActionCreate, After: cloneWaiver(waiver)}}

	var autoMember *Member
	if s.st.settings.AutoCreateMemberOnWaiver && waiver.MemberName != "" {
		if m, ok := s.autoMemberFor(waiver, now); ok {
			autoMember = &m
			next.members = append(next.members, cloneMember(m))
			changes = append(changes, Change{Entity: EntityMember, Action: ActionCreate, After: cloneMember(m)})
		}
	}

	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.Batch(ctx, func(tx domain.BatchTx) error {
			rec, rerr := encodeRecord(waiver.ID, waiver)
			if rerr != nil {
				return rerr
			}
			if err := tx.Put(domain.CollectionWaivers, rec); err != nil {
				return err
			}
			if autoMember != nil {
				mrec, rerr := encodeRecord(autoMember.ID, *autoMember)
				if rerr != nil {
					return rerr
				}
				return tx.Put(domain.CollectionMembers, mrec)
			}
			return nil
		})
	})
	if err != nil {
		return WaiverItem{}, err
	}
	if autoMember != nil {
		s.logger.Info("auto-created member from waiver", "member", autoMember.ID, "waiver", waiver.ID)
	}
	return cloneWaiver(waiver), nil
}

// autoMemberFor builds the member auto-created alongside a waiver, or reports
// false when one already exists or the demo cap leaves no room.
func (s *Service) autoMemberFor(waiver WaiverItem, now time.Time) (Member, bool) {
	for _, m := range s.st.members {
		if strings.EqualFold(m.Name, waiver.MemberName) {
			return Member{}, false
		}
	}
	if s.st.settings.DemoMode {
		if limit, ok := demoQuota(EntityMember); ok && len(s.st.members) >= limit {
			return Member{}, false
		}
	}
	return Member{
		ID:             newID(),
		Name:           waiver.MemberName,
		Email:          waiver.Email,
		MembershipType: "Basic",
		Status:         domain.MemberStatusActive,
		JoinDate:       now,
		LastVisit:      now,
	}, true
}

// UpdateWaiver merges the partial update over the stored waiver. The update
// reaches archived records too; the archived flag itself only changes through
// ArchiveWaiver and UnarchiveWaiver.
func (s *Service) UpdateWaiver(ctx context.Context, id string, upd domain.WaiverUpdate) (updated WaiverItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_waiver", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.waiverIndex(id)
	if idx < 0 {
		return WaiverItem{}, ErrNotFound{Entity: EntityWaiver, ID: id}
	}

	waiver := cloneWaiver(s.st.waivers[idx])
	before := cloneWaiver(waiver)
	if upd.MemberName != nil {
		waiver.MemberName = *upd.MemberName
	}
	if upd.Email != nil {
		waiver.Email = *upd.Email
	}
	if upd.Status != nil {
		waiver.Status = *upd.Status
	}
	if upd.SignedAt != nil {
		at := *upd.SignedAt
		waiver.SignedAt = &at
	}

	next := s.st.clone()
	next.waivers[idx] = cloneWaiver(waiver)
	replaceActiveWaiver(next.activeWaivers, waiver)
	changes := []Change{{Entity: EntityWaiver, Action: ActionUpdate, Before: before, After: cloneWaiver(waiver)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(waiver.ID, waiver)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionWaivers, rec)
	})
	if err != nil {
		return WaiverItem{}, err
	}
	return cloneWaiver(waiver), nil
}

// ArchiveWaiver soft-deletes a waiver: the record stays in the full mirror and
// leaves the active view. Archiving an archived waiver is an idempotent no-op
// with no persistence write.
func (s *Service) ArchiveWaiver(ctx context.Context, id string) (archived WaiverItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "archive_waiver", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.waiverIndex(id)
	if idx < 0 {
		return WaiverItem{}, ErrNotFound{Entity: EntityWaiver, ID: id}
	}
	waiver := cloneWaiver(s.st.waivers[idx])
	if waiver.Archived {
		return waiver, nil
	}
	before := cloneWaiver(waiver)
	waiver.Archived = true

	next := s.st.clone()
	next.waivers[idx] = cloneWaiver(waiver)
	next.activeWaivers = removeActiveWaiver(next.activeWaivers, id)
	changes := []Change{{Entity: EntityWaiver, Action: ActionUpdate, Before: before, After: cloneWaiver(waiver)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(waiver.ID, waiver)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionWaivers, rec)
	})
	if err != nil {
		return WaiverItem{}, err
	}
	return cloneWaiver(waiver), nil
}

// UnarchiveWaiver re-admits an archived waiver to the active view, appended at
// the end rather than re-sorted. Unarchiving an active waiver is a no-op.
func (s *Service) UnarchiveWaiver(ctx context.Context, id string) (restored WaiverItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "unarchive_waiver", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.waiverIndex(id)
	if idx < 0 {
		return WaiverItem{}, ErrNotFound{Entity: EntityWaiver, ID: id}
	}
	waiver := cloneWaiver(s.st.waivers[idx])
	if !waiver.Archived {
		return waiver, nil
	}
	before := cloneWaiver(waiver)
	waiver.Archived = false

	next := s.st.clone()
	next.waivers[idx] = cloneWaiver(waiver)
	next.activeWaivers = append(next.activeWaivers, cloneWaiver(waiver))
	changes := []Change{{Entity: EntityWaiver, Action: ActionUpdate, Before: before, After: cloneWaiver(waiver)}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(waiver.ID, waiver)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionWaivers, rec)
	})
	if err != nil {
		return WaiverItem{}, err
	}
	return cloneWaiver(waiver), nil
}

func (s *Service) waiverIndex(id string) int {
	for i, w := range s.st.waivers {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func replaceActiveWaiver(active []WaiverItem, waiver WaiverItem) {
	for i, w := range active {
		if w.ID == waiver.ID {
			active[i] = cloneWaiver(waiver)
			return
		}
	}
}

func removeActiveWaiver(active []WaiverItem, id string) []WaiverItem {
	for i, w := range active {
		if w.ID == id {
			return append(active[:i], active[i+1:]...)
		}
	}
	return active
}
