package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// Equipment, incidents, and payments are plain records: a generated id merged
// over caller-supplied fields, hard-deleted on removal.

// AddEquipment creates an equipment record.
func (s *Service) AddEquipment(ctx context.Context, item EquipmentItem) (created EquipmentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_equipment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	next := s.st.clone()
	next.equipment = append(next.equipment, item)
	changes := []Change{{Entity: EntityEquipment, Action: ActionCreate, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionEquipment, rec)
	})
	if err != nil {
		return EquipmentItem{}, err
	}
	return item, nil
}

// UpdateEquipment merges the partial update over the stored record.
func (s *Service) UpdateEquipment(ctx context.Context, id string, upd domain.EquipmentUpdate) (updated EquipmentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_equipment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.st.equipment {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return EquipmentItem{}, ErrNotFound{Entity: EntityEquipment, ID: id}
	}

	item := s.st.equipment[idx]
	before := item
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.Condition != nil {
		item.Condition = *upd.Condition
	}

	next := s.st.clone()
	next.equipment[idx] = item
	changes := []Change{{Entity: EntityEquipment, Action: ActionUpdate, Before: before, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionEquipment, rec)
	})
	if err != nil {
		return EquipmentItem{}, err
	}
	return item, nil
}

// RemoveEquipment hard-deletes an equipment record.
func (s *Service) RemoveEquipment(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_equipment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.st.equipment {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound{Entity: EntityEquipment, ID: id}
	}

	before := s.st.equipment[idx]
	next := s.st.clone()
	next.equipment = append(next.equipment[:idx], next.equipment[idx+1:]...)
	changes := []Change{{Entity: EntityEquipment, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionEquipment, id)
	})
}

// AddIncident creates an incident report. Status defaults to reported and the
// occurrence time defaults to now.
func (s *Service) AddIncident(ctx context.Context, item IncidentItem) (created IncidentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_incident", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	if item.Status == "" {
		item.Status = domain.IncidentStatusReported
	}
	if item.OccurredAt.IsZero() {
		item.OccurredAt = s.nowFn()
	}
	next := s.st.clone()
	next.incidents = append(next.incidents, item)
	changes := []Change{{Entity: EntityIncident, Action: ActionCreate, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionIncidents, rec)
	})
	if err != nil {
		return IncidentItem{}, err
	}
	return item, nil
}

// UpdateIncident merges the partial update over the stored record.
func (s *Service) UpdateIncident(ctx context.Context, id string, upd domain.IncidentUpdate) (updated IncidentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_incident", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, it := range s.st.incidents {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return IncidentItem{}, ErrNotFound{Entity: EntityIncident, ID: id}
	}

	item := s.st.incidents[idx]
	before := item
	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Severity != nil {
		item.Severity = *upd.Severity
	}
	if upd.Status != nil {
		item.Status = *upd.Status
	}

	next := s.st.clone()
	next.incidents[idx] = item
	changes := []Change{{Entity: EntityIncident, Action: ActionUpdate, Before: before, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionIncidents, rec)
	})
	if err != nil {
		return IncidentItem{}, err
	}
	return item, nil
}

// RemoveIncident hard-deletes an incident record.
func (s *Service) RemoveIncident(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_incident", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, it := range s.st.incidents {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound{Entity: EntityIncident, ID: id}
	}

	before := s.st.incidents[idx]
	next := s.st.clone()
	next.incidents = append(next.incidents[:idx], next.incidents[idx+1:]...)
	changes := []Change{{Entity: EntityIncident, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionIncidents, id)
	})
}

// AddPayment creates a payment record. The payment time defaults to now.
func (s *Service) AddPayment(ctx context.Context, item PaymentItem) (created PaymentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add_payment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	if item.PaidAt.IsZero() {
		item.PaidAt = s.nowFn()
	}
	next := s.st.clone()
	next.payments = append(next.payments, item)
	changes := []Change{{Entity: EntityPayment, Action: ActionCreate, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionPayments, rec)
	})
	if err != nil {
		return PaymentItem{}, err
	}
	return item, nil
}

// UpdatePayment merges the partial update over the stored record.
func (s *Service) UpdatePayment(ctx context.Context, id string, upd domain.PaymentUpdate) (updated PaymentItem, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_payment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.st.payments {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PaymentItem{}, ErrNotFound{Entity: EntityPayment, ID: id}
	}

	item := s.st.payments[idx]
	before := item
	if upd.MemberID != nil {
		item.MemberID = *upd.MemberID
	}
	if upd.Amount != nil {
		item.Amount = *upd.Amount
	}
	if upd.Method != nil {
		item.Method = *upd.Method
	}

	next := s.st.clone()
	next.payments[idx] = item
	changes := []Change{{Entity: EntityPayment, Action: ActionUpdate, Before: before, After: item}}
	err = s.commit(ctx, next, changes, func(ctx context.Context) error {
		rec, rerr := encodeRecord(item.ID, item)
		if rerr != nil {
			return rerr
		}
		return s.store.PutItem(ctx, domain.CollectionPayments, rec)
	})
	if err != nil {
		return PaymentItem{}, err
	}
	return item, nil
}

// RemovePayment hard-deletes a payment record.
func (s *Service) RemovePayment(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remove_payment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.st.payments {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound{Entity: EntityPayment, ID: id}
	}

	before := s.st.payments[idx]
	next := s.st.clone()
	next.payments = append(next.payments[:idx], next.payments[idx+1:]...)
	changes := []Change{{Entity: EntityPayment, Action: ActionDelete, Before: before}}
	return s.commit(ctx, next, changes, func(ctx context.Context) error {
		return s.store.DeleteItem(ctx, domain.CollectionPayments, id)
	})
}
