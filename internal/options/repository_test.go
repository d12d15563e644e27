package options_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/dbtest"
	"github.com/JaimeStill/mcp-endpoints/internal/options"
)

func newRepo(t *testing.T) options.System {
	t.Helper()
	db := dbtest.Open(t)
	return options.New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepository_SetGetDelete(t *testing.T) {
	store := newRepo(t)
	ctx := context.Background()

	created, err := store.Set(ctx, "blogname", "Renamed", true)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if created {
		t.Error("seeded blogname reported as created")
	}
	if v, err := store.Get(ctx, "blogname"); err != nil || v != "Renamed" {
		t.Errorf("Get = %v, %v", v, err)
	}

	if err := store.Delete(ctx, "blogname"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "blogname"); !errors.Is(err, options.ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "blogname"); !errors.Is(err, options.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestRepository_ConcurrentUpdates(t *testing.T) {
	store := newRepo(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			var list []int
			err := store.Update(ctx, "counter_list", &list, false, func(bool) (any, error) {
				return append(list, len(list)), nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		})
	}
	wg.Wait()

	var list []int
	found, err := store.Decode(ctx, "counter_list", &list)
	if err != nil || !found {
		t.Fatalf("Decode = %v, %v", found, err)
	}
	if len(list) != n {
		t.Fatalf("list has %d entries, want %d", len(list), n)
	}
	for i, v := range list {
		if v != i {
			t.Fatalf("list = %v, want 0..%d in order", list, n-1)
		}
	}

	var untouched []int
	if err := store.Update(ctx, "counter_list", &untouched, false, func(bool) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("no-op Update: %v", err)
	}
	found, _ = store.Decode(ctx, "counter_list", &list)
	if !found || len(list) != n {
		t.Errorf("no-op Update changed the list to %v", list)
	}
}
