package upgrader_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeDirectory struct {
	wporg.Directory
	packages map[string][]byte
}

func (f fakeDirectory) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	data, ok := f.packages[url]
	if !ok {
		return nil, wporg.ErrNotFound
	}
	return data, nil
}

func newUpgrader(t *testing.T, packages map[string][]byte) (*upgrader.Upgrader, storage.System) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logger)
	if err != nil {
		t.Fatal(err)
	}
	return upgrader.New(fakeDirectory{packages: packages}, store, logger, 1<<20), store
}

func TestUnpack(t *testing.T) {
	files, top, err := upgrader.Unpack(zipOf(t, map[string]string{
		"hello/hello.php":  "<?php",
		"hello/readme.txt": "readme",
	}), 0)
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	if top != "hello" || len(files) != 2 {
		t.Errorf("Unpack() = %d files, top %q", len(files), top)
	}

	_, top, err = upgrader.Unpack(zipOf(t, map[string]string{"a.php": "", "b.php": ""}), 0)
	if err != nil || top != "" {
		t.Errorf("Unpack(flat) top = %q, err = %v", top, err)
	}
}

func TestUnpack_Rejects(t *testing.T) {
	tests := map[string][]byte{
		"not a zip":    []byte("plain"),
		"path escape":  zipOf(t, map[string]string{"../evil.php": "x"}),
		"too large":    zipOf(t, map[string]string{"big/file": string(make([]byte, 64))}),
		"only folders": zipOf(t, map[string]string{"dir/": ""}),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := upgrader.Unpack(data, 32); !errors.Is(err, upgrader.ErrIncompatibleArchive) {
				t.Errorf("Unpack() error = %v, want incompatible_archive", err)
			}
		})
	}
}

func TestInstallAndUpgrade(t *testing.T) {
	u, store := newUpgrader(t, map[string][]byte{
		"v1": zipOf(t, map[string]string{"hello/hello.php": "v1", "hello/old.txt": "x"}),
		"v2": zipOf(t, map[string]string{"hello/hello.php": "v2"}),
	})
	ctx := context.Background()
	skin := &upgrader.QuietSkin{}

	dir, err := u.Install(ctx, "v1", "plugins", "fallback", skin)
	if err != nil || dir != "hello" {
		t.Fatalf("Install() = %q, %v", dir, err)
	}
	if len(skin.Messages()) == 0 {
		t.Error("skin received no feedback")
	}

	if _, err := u.Install(ctx, "v1", "plugins", "fallback", skin); !errors.Is(err, upgrader.ErrFolderExists) {
		t.Errorf("second Install() error = %v, want folder_exists", err)
	}

	if err := u.Upgrade(ctx, "v2", "plugins", "hello", skin); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	data, _ := store.Retrieve(ctx, "plugins/hello/hello.php")
	if string(data) != "v2" {
		t.Errorf("upgraded content = %q", data)
	}
	if ok, _ := store.Validate(ctx, "plugins/hello/old.txt"); ok {
		t.Error("Upgrade() kept files from the old version")
	}

	if err := u.Upgrade(ctx, "", "plugins", "hello", skin); !errors.Is(err, upgrader.ErrNoPackage) {
		t.Errorf("Upgrade(no package) error = %v", err)
	}
}

func TestReadHeaders(t *testing.T) {
	php := []byte(`<?php
/**
 * Plugin Name: Hello Dolly
 * Version: 1.7.2
 * Author: Matt Mullenweg
 * Description: This is not just a plugin. */
`)
	got := upgrader.ReadHeaders(php, upgrader.PluginHeaders)
	if got["Name"] != "Hello Dolly" || got["Version"] != "1.7.2" || got["Author"] != "Matt Mullenweg" {
		t.Errorf("ReadHeaders(plugin) = %v", got)
	}
	if got["Description"] != "This is not just a plugin." {
		t.Errorf("Description = %q", got["Description"])
	}
	if got["TextDomain"] != "" {
		t.Errorf("absent header = %q", got["TextDomain"])
	}

	css := []byte("/*\nTheme Name: Twenty Twenty-Four\nTemplate: parent\n*/")
	theme := upgrader.ReadHeaders(css, upgrader.ThemeHeaders)
	if theme["Name"] != "Twenty Twenty-Four" || theme["Template"] != "parent" {
		t.Errorf("ReadHeaders(theme) = %v", theme)
	}
}
