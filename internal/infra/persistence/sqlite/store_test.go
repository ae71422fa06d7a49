package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gymcore/pkg/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "gym.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func rec(id, payload string) domain.Record {
	return domain.Record{ID: id, Payload: []byte(payload)}
}

func ids(recs []domain.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.PutItem(ctx, "members", rec("m1", `{"name":"a"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.GetAll(ctx, "members")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" || string(got[0].Payload) != `{"name":"a"}` {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestStoreUpdateKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, r := range []domain.Record{rec("a", "1"), rec("b", "2"), rec("c", "3")} {
		if err := store.PutItem(ctx, "members", r); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := store.PutItem(ctx, "members", rec("a", "1b")); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetAll(ctx, "members")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
	if string(got[0].Payload) != "1b" {
		t.Fatalf("payload not rewritten: %s", got[0].Payload)
	}
}

func TestStoreBatchRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.PutItem(ctx, "members", rec("keep", "1")); err != nil {
		t.Fatalf("put: %v", err)
	}

	boom := errors.New("boom")
	err := store.Batch(ctx, func(tx domain.BatchTx) error {
		if err := tx.Put("members", rec("new", "2")); err != nil {
			return err
		}
		if err := tx.Delete("members", "keep"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected batch error, got %v", err)
	}

	got, err := store.GetAll(ctx, "members")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("rollback left store in wrong state: %v", ids(got))
	}
}

func TestStoreBatchSpansCollections(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	err := store.Batch(ctx, func(tx domain.BatchTx) error {
		if err := tx.Put("membership_plans", rec("p1", `{"name":"Basic"}`)); err != nil {
			return err
		}
		return tx.Put("members", rec("m1", `{"membership_type":"Basic"}`))
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	plans, _ := store.GetAll(ctx, "membership_plans")
	members, _ := store.GetAll(ctx, "members")
	if len(plans) != 1 || len(members) != 1 {
		t.Fatalf("expected both collections written, got %d plans %d members", len(plans), len(members))
	}
}

func TestStoreClearIsScoped(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.PutItem(ctx, "members", rec("m", "1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.PutItem(ctx, "settings", rec("settings", "{}")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Clear(ctx, "members", "classes"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	members, _ := store.GetAll(ctx, "members")
	settings, _ := store.GetAll(ctx, "settings")
	if len(members) != 0 {
		t.Fatalf("members should be cleared")
	}
	if len(settings) != 1 {
		t.Fatalf("settings must survive a scoped clear")
	}
}

func TestStoreReopenSeesData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gym.db")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.BulkPut(ctx, "equipment", []domain.Record{rec("e1", "1"), rec("e2", "2")}); err != nil {
		t.Fatalf("bulk put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetAll(ctx, "equipment")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records after reopen, got %d", len(got))
	}
	if reopened.Path() != path {
		t.Fatalf("Path() = %q, want %q", reopened.Path(), path)
	}
}
