package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/turnDeep/chartnote/internal/core"
)

func TestArchiver_RoundTrip(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}
	a := NewArchiver(backend)

	comments := []core.Comment{
		{ID: 1, Timestamp: 1700000000, Price: 17000, Content: "first"},
		{ID: 2, Timestamp: 1700000600, Price: 17010, Content: "second"},
	}

	key, err := a.Archive(context.Background(), comments)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.HasPrefix(key, "comments/") {
		t.Errorf("unexpected key layout: %s", key)
	}

	batch, err := a.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if batch.From != 1700000000 || batch.To != 1700000600 {
		t.Errorf("batch window mismatch: %+v", batch)
	}
	if len(batch.Comments) != 2 || batch.Comments[1].Content != "second" {
		t.Errorf("batch contents mismatch: %+v", batch.Comments)
	}

	keys, err := a.Keys(context.Background())
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("expected [%s], got %v", key, keys)
	}
}

func TestArchiver_EmptyWritesNothing(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}
	a := NewArchiver(backend)

	key, err := a.Archive(context.Background(), nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if key != "" {
		t.Errorf("empty archive must not produce a key, got %s", key)
	}

	keys, _ := a.Keys(context.Background())
	if len(keys) != 0 {
		t.Errorf("expected no stored batches, got %v", keys)
	}
}

func TestLocalFS_ListFiltersByPrefix(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}

	ctx := context.Background()
	backend.Put(ctx, "comments/2026-08-31/a.json", []byte("{}"))
	backend.Put(ctx, "other/b.json", []byte("{}"))

	keys, err := backend.List(ctx, "comments/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != "comments/2026-08-31/a.json" {
		t.Errorf("prefix filter failed: %v", keys)
	}
}
