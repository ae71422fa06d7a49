package fs

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"gymcore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetHeadDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	payload := []byte(`{"hello":"world"}`)
	info, err := store.Put(ctx, "snapshots/a/members.json", bytes.NewReader(payload), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"snapshot": "a"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Fatalf("size = %d", info.Size)
	}
	if info.ETag == "" {
		t.Fatalf("missing etag")
	}
	if info.ContentType != "application/json" {
		t.Fatalf("content type = %q", info.ContentType)
	}

	got, r, err := store.Get(ctx, "snapshots/a/members.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("content mismatch: %s", data)
	}
	if got.ETag != info.ETag {
		t.Fatalf("etag changed between put and get")
	}
	if got.Metadata["snapshot"] != "a" {
		t.Fatalf("metadata = %v", got.Metadata)
	}

	head, err := store.Head(ctx, "snapshots/a/members.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Size != info.Size || head.ETag != info.ETag {
		t.Fatalf("head disagrees with put: %+v", head)
	}

	existed, err := store.Delete(ctx, "snapshots/a/members.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "snapshots/a/members.json")
	if err != nil || existed {
		t.Fatalf("repeat delete: existed=%v err=%v", existed, err)
	}
	if _, _, err := store.Get(ctx, "snapshots/a/members.json"); err == nil {
		t.Fatalf("get after delete succeeded")
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatalf("second put succeeded")
	}
	_, r, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "one" {
		t.Fatalf("content overwritten: %s", data)
	}
}

func TestKeySanitization(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"", "  ", "/abs/path", "../escape", "a/../../b", "a/..b/../c"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("put accepted key %q", key)
		}
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"snapshots/b/manifest.json", "snapshots/a/manifest.json", "other/file.txt"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d blobs", len(infos))
	}
	if infos[0].Key != "snapshots/a/manifest.json" || infos[1].Key != "snapshots/b/manifest.json" {
		t.Fatalf("listing not sorted by key: %s, %s", infos[0].Key, infos[1].Key)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d blobs without prefix", len(all))
	}
}

func TestPresignURL(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	u, err := store.PresignURL(ctx, "snapshots/a/manifest.json", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(u, "http://local.blob/") {
		t.Fatalf("url = %q", u)
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{Method: "PUT"}); err == nil {
		t.Fatalf("presign PUT succeeded")
	}
}
