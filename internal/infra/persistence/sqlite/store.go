// Package sqlite provides the embedded CollectionStore: one row per record in
// a single sqlite file, insertion order preserved through a monotonic seq.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gymcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ domain.CollectionStore = (*Store)(nil)

// Store persists collections to a single sqlite database file.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the sqlite file and ensures the records table
// exists. An empty path falls back to gymcore.db in the working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "gymcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		payload BLOB NOT NULL,
		UNIQUE(collection, id)
	)`); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

const upsertSQL = `INSERT INTO records(collection, id, payload) VALUES(?, ?, ?)
	ON CONFLICT(collection, id) DO UPDATE SET payload = excluded.payload`

// GetAll scans a collection in insertion order. Unknown collections yield an
// empty slice.
func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()
	out := []domain.Record{}
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

// PutItem upserts a single record. An update keeps the record's original seq
// so insertion order survives rewrites.
func (s *Store) PutItem(ctx context.Context, collection string, rec domain.Record) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, collection, rec.ID, []byte(rec.Payload)); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

// DeleteItem removes a record; absent ids are a no-op.
func (s *Store) DeleteItem(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// BulkPut upserts every record in one transaction.
func (s *Store) BulkPut(ctx context.Context, collection string, recs []domain.Record) error {
	return s.Batch(ctx, func(tx domain.BatchTx) error {
		for _, rec := range recs {
			if err := tx.Put(collection, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear wipes the named collections only.
func (s *Store) Clear(ctx context.Context, collections ...string) error {
	if len(collections) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(collections))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(collections))
	for i, c := range collections {
		args[i] = c
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}
	return nil
}

type batchTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (b batchTx) Put(collection string, rec domain.Record) error {
	if _, err := b.tx.ExecContext(b.ctx, upsertSQL, collection, rec.ID, []byte(rec.Payload)); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

func (b batchTx) Delete(collection, id string) error {
	if _, err := b.tx.ExecContext(b.ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (b batchTx) ClearCollection(collection string) error {
	if _, err := b.tx.ExecContext(b.ctx, `DELETE FROM records WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Batch runs fn inside one sql transaction; it commits on nil and rolls back
// otherwise, so multi-collection writes are all-or-nothing.
func (s *Store) Batch(ctx context.Context, fn func(domain.BatchTx) error) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := fn(batchTx{ctx: ctx, tx: tx}); err != nil {
		retErr = err
		return retErr
	}
	if err := tx.Commit(); err != nil {
		retErr = fmt.Errorf("commit: %w", err)
	}
	return retErr
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
