package dedup

import (
	"context"
	"testing"
	"time"
)

func TestFileStoreMarkAndSeen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	seen, err := store.Seen(ctx, "post-1")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Error("fresh store should not have seen post-1")
	}

	if err := store.MarkSeen(ctx, "post-1", time.Now()); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}

	seen, err = store.Seen(ctx, "post-1")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if !seen {
		t.Error("post-1 should be seen after marking")
	}
}

func TestFileStorePersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.MarkSeen(ctx, "post-1", time.Now()); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}

	reloaded, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reloading store: %v", err)
	}
	seen, err := reloaded.Seen(ctx, "post-1")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if !seen {
		t.Error("seen snapshot should survive a reload")
	}

	seen, _ = reloaded.Seen(ctx, "post-2")
	if seen {
		t.Error("post-2 was never marked")
	}
}
