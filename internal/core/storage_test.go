package core

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gymcore/internal/infra/persistence/memory"
	"gymcore/internal/infra/persistence/sqlite"
)

func TestOpenCollectionStoreSelectsDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Setenv("GYMCORE_STORAGE_DRIVER", "memory")
		store, err := OpenCollectionStore(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, ok := store.(*memory.Store); !ok {
			t.Fatalf("store type = %T", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gym.db")
		t.Setenv("GYMCORE_STORAGE_DRIVER", "sqlite")
		t.Setenv("GYMCORE_SQLITE_PATH", path)
		store, err := OpenCollectionStore(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		sq, ok := store.(*sqlite.Store)
		if !ok {
			t.Fatalf("store type = %T", store)
		}
		t.Cleanup(func() { _ = sq.Close() })
		if sq.Path() != path {
			t.Fatalf("path = %q, want %q", sq.Path(), path)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("GYMCORE_STORAGE_DRIVER", "etcd")
		if _, err := OpenCollectionStore(ctx); err == nil || !strings.Contains(err.Error(), "etcd") {
			t.Fatalf("expected unknown driver error, got %v", err)
		}
	})
}
