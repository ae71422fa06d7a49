// Package snapshot exports the full contents of a collection store to blob
// storage as an immutable set of per-collection JSON documents.
package snapshot

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gymcore/internal/blob"
	"gymcore/pkg/domain"
)

const contentTypeJSON = "application/json"

// CollectionEntry describes one exported collection document.
type CollectionEntry struct {
	Collection string `json:"collection"`
	Records    int    `json:"records"`
	Key        string `json:"key"`
	SizeBytes  int64  `json:"size_bytes"`
	ETag       string `json:"etag,omitempty"`
}

// Manifest describes a completed snapshot.
type Manifest struct {
	ID          string            `json:"id"`
	Key         string            `json:"key"`
	Collections []CollectionEntry `json:"collections"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AuditEntry captures audit trail metadata for snapshot exports.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Snapshot   string    `json:"snapshot"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditLogger records snapshot audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

// Exporter reads every collection from the store and writes one JSON document
// per collection plus a manifest under snapshots/<id>/.
type Exporter struct {
	store domain.CollectionStore
	blobs blob.Store
	audit AuditLogger
	nowFn func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithAudit installs an audit logger for export outcomes.
func WithAudit(a AuditLogger) Option {
	return func(e *Exporter) {
		if a != nil {
			e.audit = a
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.nowFn = now
		}
	}
}

// NewExporter constructs an exporter over the supplied store and blob backend.
func NewExporter(store domain.CollectionStore, blobs blob.Store, opts ...Option) *Exporter {
	e := &Exporter{
		store: store,
		blobs: blobs,
		audit: noopAudit{},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type exportedRecord struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// Export writes the current store contents to blob storage and returns the
// manifest. Snapshot keys embed a timestamp and random suffix so repeated
// exports never collide.
func (e *Exporter) Export(ctx context.Context) (Manifest, error) {
	id := e.newSnapshotID()
	manifest, err := e.export(ctx, id)
	status := "succeeded"
	var errMsg string
	if err != nil {
		status = "failed"
		errMsg = err.Error()
	}
	e.audit.Record(ctx, AuditEntry{
		ID:         id,
		Action:     "snapshot.export",
		Snapshot:   id,
		Status:     status,
		Error:      errMsg,
		OccurredAt: e.nowFn(),
	})
	return manifest, err
}

func (e *Exporter) export(ctx context.Context, id string) (Manifest, error) {
	collections := append(domain.EntityCollections(), domain.CollectionSettings)
	manifest := Manifest{
		ID:        id,
		Key:       manifestKey(id),
		CreatedAt: e.nowFn(),
	}
	for _, collection := range collections {
		recs, err := e.store.GetAll(ctx, collection)
		if err != nil {
			return Manifest{}, fmt.Errorf("read %s: %w", collection, err)
		}
		exported := make([]exportedRecord, 0, len(recs))
		for _, rec := range recs {
			exported = append(exported, exportedRecord{ID: rec.ID, Payload: rec.Payload})
		}
		payload, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return Manifest{}, fmt.Errorf("encode %s: %w", collection, err)
		}
		key := collectionKey(id, collection)
		info, err := e.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: contentTypeJSON,
			Metadata:    map[string]string{"collection": collection, "snapshot": id},
		})
		if err != nil {
			return Manifest{}, fmt.Errorf("store %s: %w", collection, err)
		}
		manifest.Collections = append(manifest.Collections, CollectionEntry{
			Collection: collection,
			Records:    len(recs),
			Key:        key,
			SizeBytes:  info.Size,
			ETag:       info.ETag,
		})
	}
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	if _, err := e.blobs.Put(ctx, manifest.Key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentTypeJSON,
		Metadata:    map[string]string{"snapshot": id},
	}); err != nil {
		return Manifest{}, fmt.Errorf("store manifest: %w", err)
	}
	return manifest, nil
}

// Manifests lists previously exported snapshot manifests, oldest first.
func (e *Exporter) Manifests(ctx context.Context) ([]Manifest, error) {
	infos, err := e.blobs.List(ctx, "snapshots/")
	if err != nil {
		return nil, err
	}
	var manifests []Manifest
	for _, info := range infos {
		if !isManifestKey(info.Key) {
			continue
		}
		_, r, err := e.blobs.Get(ctx, info.Key)
		if err != nil {
			return nil, err
		}
		var m Manifest
		decErr := json.NewDecoder(r).Decode(&m)
		_ = r.Close()
		if decErr != nil {
			return nil, fmt.Errorf("decode manifest %s: %w", info.Key, decErr)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

func (e *Exporter) newSnapshotID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s-%s", e.nowFn().Format("20060102T150405Z"), hex.EncodeToString(b[:]))
}

func collectionKey(id, collection string) string {
	return fmt.Sprintf("snapshots/%s/%s.json", id, collection)
}

func manifestKey(id string) string {
	return fmt.Sprintf("snapshots/%s/manifest.json", id)
}

func isManifestKey(key string) bool {
	const suffix = "/manifest.json"
	return len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix
}
