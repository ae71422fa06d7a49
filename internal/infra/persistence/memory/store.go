// Package memory provides an in-memory CollectionStore used by tests and
// ephemeral deployments. Collections preserve insertion order and batches
// apply atomically against a staged copy.
package memory

import (
	"context"
	"sync"

	"gymcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.CollectionStore = (*Store)(nil)

type collection struct {
	order []string
	items map[string][]byte
}

func newCollection() *collection {
	return &collection{items: make(map[string][]byte)}
}

func (c *collection) clone() *collection {
	cp := &collection{
		order: append([]string(nil), c.order...),
		items: make(map[string][]byte, len(c.items)),
	}
	for id, payload := range c.items {
		cp.items[id] = append([]byte(nil), payload...)
	}
	return cp
}

func (c *collection) put(rec domain.Record) {
	if _, ok := c.items[rec.ID]; !ok {
		c.order = append(c.order, rec.ID)
	}
	c.items[rec.ID] = append([]byte(nil), rec.Payload...)
}

func (c *collection) delete(id string) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Store keeps every collection in process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// GetAll returns the insertion-ordered records of a collection. Unknown
// collections yield an empty slice.
func (s *Store) GetAll(_ context.Context, name string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return []domain.Record{}, nil
	}
	out := make([]domain.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, domain.Record{ID: id, Payload: append([]byte(nil), c.items[id]...)})
	}
	return out, nil
}

// PutItem upserts a single record.
func (s *Store) PutItem(_ context.Context, name string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = newCollection()
		s.collections[name] = c
	}
	c.put(rec)
	return nil
}

// DeleteItem removes a record; absent ids are a no-op.
func (s *Store) DeleteItem(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		c.delete(id)
	}
	return nil
}

// BulkPut upserts every record or none.
func (s *Store) BulkPut(ctx context.Context, name string, recs []domain.Record) error {
	return s.Batch(ctx, func(tx domain.BatchTx) error {
		for _, rec := range recs {
			if err := tx.Put(name, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear wipes the named collections only.
func (s *Store) Clear(_ context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		delete(s.collections, name)
	}
	return nil
}

type batch struct {
	staged map[string]*collection
	store  *Store
}

func (b *batch) collection(name string) *collection {
	if c, ok := b.staged[name]; ok {
		return c
	}
	var c *collection
	if existing, ok := b.store.collections[name]; ok {
		c = existing.clone()
	} else {
		c = newCollection()
	}
	b.staged[name] = c
	return c
}

func (b *batch) Put(name string, rec domain.Record) error {
	b.collection(name).put(rec)
	return nil
}

func (b *batch) Delete(name, id string) error {
	b.collection(name).delete(id)
	return nil
}

func (b *batch) ClearCollection(name string) error {
	b.staged[name] = newCollection()
	return nil
}

// Batch stages writes against cloned collections and swaps them in only when
// fn returns nil.
func (s *Store) Batch(_ context.Context, fn func(domain.BatchTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &batch{staged: make(map[string]*collection), store: s}
	if err := fn(b); err != nil {
		return err
	}
	for name, c := range b.staged {
		s.collections[name] = c
	}
	return nil
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() error { return nil }
