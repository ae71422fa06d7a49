package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// AddPlan creates a membership plan. Status defaults to active and both
// timestamps are set to now.
func (s *Service) AddPlan(ctx context.Context, plan MembershipPlan) (created MembershipPlan, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_plan", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if plan.ID == "" {
		plan.ID = newID()
	}
	if plan.Status == "" {
		plan.Status = domain.PlanStatusActive
	}
	plan.CreatedAt = now
	plan.UpdatedAt = now

	next := s.st.clone()
	next.plans = append(next.plans, plan)
	changes := []Change{{Entity: EntityPlan, Action: ActionCreate, After: plan}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(plan.ID, plan)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionPlans, rec)
	})
	if err != nil {
		return MembershipPlan{}, err
	}
	return plan, nil
}

// UpdatePlan merges the partial update over the stored plan and bumps
// UpdatedAt. Renaming a plan cascades over every member whose membership type
// equals the old name: the plan write and all member rewrites land in one
// storage batch, so a failure partway through leaves nothing renamed.
func (s *Service) UpdatePlan(ctx context.Context, id string, upd domain.PlanUpdate) (updated MembershipPlan, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_plan", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.st.plans {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return MembershipPlan{}, ErrNotFound{Entity: EntityPlan, ID: id}
	}

	plan := s.st.plans[idx]
	before := plan
	oldName := plan.Name
	if upd.Name != nil {
		plan.Name = *upd.Name
	}
	if upd.Price != nil {
		plan.Price = *upd.Price
	}
	if upd.Interval != nil {
		plan.Interval = *upd.Interval
	}
	if upd.Description != nil {
		plan.Description = *upd.Description
	}
	if upd.Status != nil {
		plan.Status = *upd.Status
	}
	plan.UpdatedAt = s.nowFn()

	rename := plan.Name != oldName

	next := s.st.clone()
	next.plans[idx] = plan
	changes := []Change{{Entity: EntityPlan, Action: ActionUpdate, Before: before, After: plan}}

	// Members changed by the cascade, keyed by id; all other members stay
	// untouched in the mirror.
	var renamed []Member
	if rename {
		for i, m := range next.members {
			if m.MembershipType != oldName {
				continue
			}
			m.MembershipType = plan.Name
			next.members[i] = cloneMember(m)
			renamed = append(renamed, cloneMember(m))
			changes = append(changes, Change{Entity: EntityMember, Action: ActionUpdate, After: cloneMember(m)})
		}
	}

	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.Batch(ctx, func(tx domain.BatchTx) error {
			rec, rerr := encodeRecord(plan.ID, plan)
			if rerr != nil {
				return rerr
			}
			if err := tx.Put(domain.CollectionPlans, rec); err != nil {
				return err
			}
			for _, m := range renamed {
				mrec, rerr := encodeRecord(m.ID, m)
				if rerr != nil {
					return rerr
				}
				if err := tx.Put(domain.CollectionMembers, mrec); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return MembershipPlan{}, err
	}
	if rename {
		s.logger.Info("cascaded plan rename", "plan", plan.ID, "from", oldName, "to", plan.Name, "members", len(renamed))
	}
	return plan, nil
}

// RemovePlan hard-deletes a membership plan. Members referencing the plan by
// name keep their label; the reference is free text, not a foreign key.
func (s *Service) RemovePlan(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_plan", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.st.plans {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound{Entity: EntityPlan, ID: id}
	}

	before := s.st.plans[idx]
	next := s.st.clone()
	next.plans = append(next.plans[:idx], next.plans[idx+1:]...)
	changes := []Change{{Entity: EntityPlan, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionPlans, id)
	})
}
