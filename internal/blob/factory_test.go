package blob

import (
	"context"
	"strings"
	"testing"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Setenv("GYMCORE_BLOB_DRIVER", "memory")
		store, err := Open(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if store.Driver() != DriverMemory {
			t.Fatalf("driver = %q", store.Driver())
		}
	})

	t.Run("fs", func(t *testing.T) {
		t.Setenv("GYMCORE_BLOB_DRIVER", "fs")
		t.Setenv("GYMCORE_BLOB_FS_ROOT", t.TempDir())
		store, err := Open(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if store.Driver() != DriverFilesystem {
			t.Fatalf("driver = %q", store.Driver())
		}
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("GYMCORE_BLOB_DRIVER", "s3")
		t.Setenv("GYMCORE_BLOB_S3_BUCKET", "")
		if _, err := Open(ctx); err == nil {
			t.Fatalf("expected error without bucket")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("GYMCORE_BLOB_DRIVER", "ftp")
		if _, err := Open(ctx); err == nil || !strings.Contains(err.Error(), "ftp") {
			t.Fatalf("expected unknown driver error, got %v", err)
		}
	})
}
