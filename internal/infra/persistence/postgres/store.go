// Package postgres provides a Postgres-backed CollectionStore that mirrors
// the sqlite schema for deployments that outgrow a single file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"gymcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion.
var _ domain.CollectionStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/gymcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists collections to Postgres.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), pings it, and ensures the records table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS records (
		seq BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		payload BYTEA NOT NULL,
		UNIQUE(collection, id)
	)`); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Store{db: db}, nil
}

const upsertSQL = `INSERT INTO records(collection, id, payload) VALUES($1, $2, $3)
	ON CONFLICT(collection, id) DO UPDATE SET payload = excluded.payload`

// GetAll scans a collection in insertion order.
func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM records WHERE collection = $1 ORDER BY seq`, collection)
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

// PutItem upserts a single record.
func (s *Store) PutItem(ctx context.Context, collection string, rec domain.Record) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, collection, rec.ID, []byte(rec.Payload)); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

// DeleteItem removes a record; absent ids are a no-op.
func (s *Store) DeleteItem(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id); err != nil {
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
	placeholders := make([]string, len(collections))
	args := make([]any, len(collections))
	for i, c := range collections {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c
	}
	query := `DELETE FROM records WHERE collection IN (` + strings.Join(placeholders, ",") + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
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
	if _, err := b.tx.ExecContext(b.ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (b batchTx) ClearCollection(collection string) error {
	if _, err := b.tx.ExecContext(b.ctx, `DELETE FROM records WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Batch runs fn inside one sql transaction.
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

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
