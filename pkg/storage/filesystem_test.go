package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/pkg/lifecycle"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

func newStore(t *testing.T) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.New(&storage.Config{BasePath: dir}, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := storage.New(&storage.Config{}, logger); err == nil {
		t.Error("New() error = nil for empty base path")
	}
}

func TestStart_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wp-content")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(&storage.Config{BasePath: dir}, logger)
	if err != nil {
		t.Fatal(err)
	}

	lc := lifecycle.New()
	store.Start(lc)
	lc.WaitForStartup()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("root not created: %v", err)
	}
}

func TestStoreRetrieveDelete(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	key := "plugins/hello/hello.php"
	if err := store.Store(ctx, key, []byte("<?php")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := store.Retrieve(ctx, key)
	if err != nil || string(data) != "<?php" {
		t.Fatalf("Retrieve() = %q, %v", data, err)
	}

	if ok, _ := store.Validate(ctx, key); !ok {
		t.Error("Validate() = false after Store")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plugins")); !os.IsNotExist(err) {
		t.Error("empty parent directories not pruned")
	}

	if _, err := store.Retrieve(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Retrieve() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete() missing key error = %v", err)
	}
}

func TestCreate_Exclusive(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	key := "uploads/2026/10/photo.png"
	if err := store.Store(ctx, key, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, key, []byte("second")); !errors.Is(err, storage.ErrExists) {
		t.Fatalf("Create() over existing key error = %v, want ErrExists", err)
	}
	if data, _ := store.Retrieve(ctx, key); string(data) != "first" {
		t.Errorf("existing object overwritten: %q", data)
	}

	var created atomic.Int32
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			err := store.Create(ctx, "uploads/2026/10/race.png", []byte{byte(i)})
			switch {
			case err == nil:
				created.Add(1)
			case !errors.Is(err, storage.ErrExists):
				t.Errorf("Create() error = %v", err)
			}
		})
	}
	wg.Wait()

	if n := created.Load(); n != 1 {
		t.Errorf("concurrent Create() succeeded %d times, want 1", n)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "uploads", "2026", "10"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestListChildrenDeletePrefix(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	files := map[string]string{
		"themes/alpha/style.css":     "a",
		"themes/alpha/inc/extra.php": "bb",
		"themes/beta/style.css":      "ccc",
	}
	for k, v := range files {
		if err := store.Store(ctx, k, []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.List(ctx, "themes/alpha")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "themes/alpha/inc/extra.php" || entries[0].Size != 2 {
		t.Errorf("List() = %+v", entries)
	}

	children, err := store.Children(ctx, "themes")
	if err != nil || len(children) != 2 {
		t.Errorf("Children() = %v, %v", children, err)
	}

	if missing, err := store.List(ctx, "plugins"); err != nil || len(missing) != 0 {
		t.Errorf("List(missing) = %v, %v", missing, err)
	}

	if err := store.DeletePrefix(ctx, "themes/alpha"); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}
	if ok, _ := store.Validate(ctx, "themes/alpha/style.css"); ok {
		t.Error("DeletePrefix() left files behind")
	}
	if ok, _ := store.Validate(ctx, "themes/beta/style.css"); !ok {
		t.Error("DeletePrefix() removed a sibling")
	}
}

func TestInvalidKeys(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "/abs/path", "uploads/../../x"} {
		t.Run(key, func(t *testing.T) {
			if err := store.Store(ctx, key, nil); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want ErrInvalidKey", key, err)
			}
		})
	}

	if err := store.DeletePrefix(ctx, "."); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("DeletePrefix(root) error = %v, want ErrInvalidKey", err)
	}
}
