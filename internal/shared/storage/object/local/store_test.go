package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Save(ctx, "notes/abc.txt", "text/plain; charset=utf-8", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, "notes/abc.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, "notes/abc.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "notes/abc.txt"); err == nil {
		t.Fatal("expected open after delete to fail")
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Delete(context.Background(), "notes/never-existed.pdf"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	// A second delete of the same key must also succeed.
	if err := store.Delete(context.Background(), "notes/never-existed.pdf"); err != nil {
		t.Fatalf("expected second delete to be a no-op, got %v", err)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "notes/a.txt", "text/plain", strings.NewReader("a")); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if _, err := store.Save(ctx, "notes/b.md", "text/markdown", strings.NewReader("b")); err != nil {
		t.Fatalf("save b: %v", err)
	}
	if _, err := store.Save(ctx, "other/c.txt", "text/plain", strings.NewReader("c")); err != nil {
		t.Fatalf("save c: %v", err)
	}

	infos, err := store.List(ctx, "notes/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 objects under notes/, got %d", len(infos))
	}
	for _, info := range infos {
		if !strings.HasPrefix(info.Key, "notes/") {
			t.Fatalf("unexpected key %q", info.Key)
		}
		if info.Modified.IsZero() {
			t.Fatalf("expected modified time for %q", info.Key)
		}
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Save(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected absolute key to be rejected")
	}
}
