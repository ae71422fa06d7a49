package domain

import (
	"context"
	"encoding/json"
)

// Record is a stored item: an id plus the JSON payload of one entity. The
// typed layer owns marshalling; CollectionStore implementations treat payloads
// as opaque.
type Record struct {
	ID      string
	Payload json.RawMessage
}

// BatchTx stages writes that commit atomically when the batch function returns
// nil and are discarded otherwise.
type BatchTx interface {
	Put(collection string, rec Record) error
	Delete(collection, id string) error
	ClearCollection(collection string) error
}

// CollectionStore is the embedded persistence primitive: named, insertion
// ordered collections of records addressed by string ids.
//
// GetAll returns an empty slice for an unknown or empty collection, never an
// error for that case. PutItem is an atomic single-item upsert. DeleteItem is
// a no-op when the id is absent. BulkPut is all-or-nothing. Clear wipes only
// the named collections.
type CollectionStore interface {
	GetAll(ctx context.Context, collection string) ([]Record, error)
	PutItem(ctx context.Context, collection string, rec Record) error
	DeleteItem(ctx context.Context, collection, id string) error
	BulkPut(ctx context.Context, collection string, recs []Record) error
	Clear(ctx context.Context, collections ...string) error
	Batch(ctx context.Context, fn func(BatchTx) error) error
	Close() error
}
