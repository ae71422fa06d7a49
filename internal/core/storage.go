package core

import (
	"context"
	"fmt"
	"os"

	"gymcore/internal/infra/persistence/memory"
	"gymcore/internal/infra/persistence/postgres"
	"gymcore/internal/infra/persistence/sqlite"
	"gymcore/pkg/domain"
)

// StorageDriver identifies a concrete collection store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenCollectionStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	GYMCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	GYMCORE_SQLITE_PATH: path to sqlite file (default ./gymcore.db)
//	GYMCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenCollectionStore(ctx context.Context) (domain.CollectionStore, error) {
	driver := os.Getenv("GYMCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		path := os.Getenv("GYMCORE_SQLITE_PATH")
		return sqlite.NewStore(path)
	case StoragePostgres:
		dsn := os.Getenv("GYMCORE_POSTGRES_DSN")
		return postgres.NewStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
