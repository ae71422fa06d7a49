package core

import (
	"context"
	"fmt"
	"time"

	"gymcore/internal/seed"
	"gymcore/pkg/domain"
)

// PurgeAll wipes every entity collection and resets every mirror to empty.
// The settings record survives and nothing is reseeded.
func (s *Service) PurgeAll(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "purge_all", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx, domain.EntityCollections()...); err != nil {
		return fmt.Errorf("purge collections: %w", err)
	}
	settings := s.st.settings
	s.st = state{settings: settings}
	s.logger.Info("purged all gym data")
	return nil
}

// ResetToSeed wipes every entity collection, seeds the full catalog in one
// atomic batch, then reloads every collection from storage so the mirrors
// reflect what was actually durably written rather than the seed values.
func (s *Service) ResetToSeed(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "reset_to_seed", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Batch(ctx, func(tx domain.BatchTx) error {
		for _, collection := range domain.EntityCollections() {
			if err := tx.ClearCollection(collection); err != nil {
				return err
			}
		}
		if err := seedCollection(tx, domain.CollectionMembers, seed.Members(), func(m Member) string { return m.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionClasses, seed.Classes(), func(c Class) string { return c.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionEquipment, seed.Equipment(), func(e EquipmentItem) string { return e.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionIncidents, seed.Incidents(), func(i IncidentItem) string { return i.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionWaivers, seed.Waivers(), func(w WaiverItem) string { return w.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionStaff, seed.Staff(), func(m StaffMember) string { return m.ID }); err != nil {
			return err
		}
		if err := seedCollection(tx, domain.CollectionPayments, seed.Payments(), func(p PaymentItem) string { return p.ID }); err != nil {
			return err
		}
		return seedCollection(tx, domain.CollectionPlans, seed.Plans(), func(p MembershipPlan) string { return p.ID })
	})
	if err != nil {
		return fmt.Errorf("reseed: %w", err)
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	st.settings = s.st.settings
	s.st = st
	s.logger.Info("reset to seed catalog",
		"members", len(st.members),
		"classes", len(st.classes),
		"plans", len(st.plans),
	)
	return nil
}

func seedCollection[T any](tx domain.BatchTx, collection string, items []T, id func(T) string) error {
	for _, item := range items {
		rec, err := encodeRecord(id(item), item)
		if err != nil {
			return err
		}
		if err := tx.Put(collection, rec); err != nil {
			return err
		}
	}
	return nil
}
