package comment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/turnDeep/chartnote/internal/core"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "comments.db"))
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(100),
		"sqlite": sqlite,
	}
}

func TestStore_SaveAssignsID(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			c := &core.Comment{Timestamp: 1700000000, Price: 17000, Content: "going long"}
			if err := store.Save(context.Background(), c); err != nil {
				t.Fatalf("save: %v", err)
			}
			if c.ID == 0 {
				t.Error("expected an assigned ID")
			}

			got, err := store.GetByID(context.Background(), c.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Content != "going long" || got.Price != 17000 {
				t.Errorf("round trip mismatch: %+v", got)
			}
		})
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetByID(context.Background(), 999)
			if !errors.Is(err, core.ErrCommentNotFound) {
				t.Errorf("expected ErrCommentNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ListWindow(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, ts := range []int64{100, 200, 300, 400} {
				c := &core.Comment{Timestamp: ts, Price: 17000, Content: "c"}
				if err := store.Save(ctx, c); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			got, err := store.List(ctx, ListFilter{From: 200, To: 300})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 comments in window, got %d", len(got))
			}
			if got[0].Timestamp != 200 || got[1].Timestamp != 300 {
				t.Errorf("expected oldest-first [200 300], got [%d %d]", got[0].Timestamp, got[1].Timestamp)
			}

			n, err := store.Count(ctx, ListFilter{From: 200})
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != 3 {
				t.Errorf("expected count 3, got %d", n)
			}
		})
	}
}

func TestStore_ListLimitOffset(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, ts := range []int64{100, 200, 300} {
				if err := store.Save(ctx, &core.Comment{Timestamp: ts, Price: 1, Content: "c"}); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			got, err := store.List(ctx, ListFilter{Limit: 1, Offset: 1})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 1 || got[0].Timestamp != 200 {
				t.Errorf("expected the middle comment, got %+v", got)
			}
		})
	}
}

func TestMemoryStore_TrimsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	for _, ts := range []int64{100, 200, 300} {
		if err := store.Save(ctx, &core.Comment{Timestamp: ts, Price: 1, Content: "c"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Timestamp != 200 || got[1].Timestamp != 300 {
		t.Errorf("expected oldest trimmed, got %+v", got)
	}
}

func TestMemoryStore_ZeroCapacityIsUnbounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	for _, ts := range []int64{100, 200, 300} {
		if err := store.Save(ctx, &core.Comment{Timestamp: ts, Price: 1, Content: "c"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := store.Count(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected all 3 comments retained, got %d", n)
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, ts := range []int64{100, 200, 300} {
				if err := store.Save(ctx, &core.Comment{Timestamp: ts, Price: 1, Content: "c"}); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			removed, err := store.DeleteBefore(ctx, 300)
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if len(removed) != 2 || removed[0].Timestamp != 100 || removed[1].Timestamp != 200 {
				t.Errorf("expected [100 200] removed oldest-first, got %+v", removed)
			}

			left, err := store.List(ctx, ListFilter{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(left) != 1 || left[0].Timestamp != 300 {
				t.Errorf("expected only the 300 comment left, got %+v", left)
			}
		})
	}
}
