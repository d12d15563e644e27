package themes_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

func style(name, version, template string) string {
	s := "/*\nTheme Name: " + name + "\nVersion: " + version + "\nTags: blog, one-column\n"
	if template != "" {
		s += "Template: " + template + "\n"
	}
	return s + "*/\n"
}

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
	themes   map[string]*wporg.ThemeInfo
	packages map[string][]byte
}

func (f *fakeDirectory) ThemeInformation(ctx context.Context, slug string) (*wporg.ThemeInfo, error) {
	info, ok := f.themes[slug]
	if !ok {
		return nil, wporg.ErrNotFound
	}
	return info, nil
}

func (f *fakeDirectory) QueryThemes(ctx context.Context, search string, perPage int) (*wporg.ThemeQuery, error) {
	q := &wporg.ThemeQuery{}
	for _, t := range f.themes {
		q.Themes = append(q.Themes, *t)
	}
	q.Info.Results = len(q.Themes)
	return q, nil
}

func (f *fakeDirectory) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	data, ok := f.packages[url]
	if !ok {
		return nil, wporg.ErrNotFound
	}
	return data, nil
}

type fixture struct {
	sys   themes.System
	store storage.System
	opts  *optionstest.Memory
	mux   *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logger)
	if err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("word ", 40)
	dir := &fakeDirectory{
		themes: map[string]*wporg.ThemeInfo{
			"astra": {
				Name:         "Astra",
				Slug:         "astra",
				Version:      "4.8.0",
				Author:       json.RawMessage(`{"display_name": "Brainstorm Force"}`),
				Description:  long,
				DownloadLink: "https://downloads.example/astra.4.8.0.zip",
			},
		},
		packages: map[string][]byte{
			"https://downloads.example/astra.4.8.0.zip": zipOf(t, map[string]string{
				"astra/style.css": style("Astra", "4.8.0", ""),
				"astra/index.php": "<?php",
			}),
		},
	}

	ctx := context.Background()
	store.Store(ctx, "themes/twentytwentyfour/style.css", []byte(style("Twenty Twenty-Four", "1.2", "")))

	opts := optionstest.New().Seed("stylesheet", "twentytwentyfour").Seed("template", "twentytwentyfour")
	up := upgrader.New(dir, store, logger, 1<<20)
	sys := themes.New(store, opts, dir, up, logger)

	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, themes.NewHandler(sys, logger).Routes())
	return &fixture{sys: sys, store: store, opts: opts, mux: mux}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, httptest.NewRequest(method, path, r))

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestList(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "GET", "/mcp/v1/themes", "")
	if status != http.StatusOK || body["count"] != float64(1) || body["active"] != "twentytwentyfour" {
		t.Fatalf("list = %d %v", status, body)
	}
	theme := body["themes"].([]any)[0].(map[string]any)
	if theme["active"] != true || len(theme["tags"].([]any)) != 2 {
		t.Errorf("theme = %v", theme)
	}
}

func TestInstallAndActivate(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "POST", "/mcp/v1/themes/install", `{"slug": "astra", "activate": true}`)
	if status != http.StatusOK || body["activated"] != true || body["theme"] != "astra" {
		t.Fatalf("install = %d %v", status, body)
	}

	for key, want := range map[string]string{"stylesheet": `"astra"`, "template": `"astra"`, "current_theme": `"Astra"`} {
		if raw, _ := f.opts.Raw(key); raw != want {
			t.Errorf("option %s = %s, want %s", key, raw, want)
		}
	}
}

func TestActivate_ChildRequiresParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Store(ctx, "themes/child/style.css", []byte(style("Child", "1.0", "missing-parent")))

	status, body := f.do(t, "POST", "/mcp/v1/themes/activate", `{"stylesheet": "child"}`)
	if status != http.StatusBadRequest || body["code"] != "theme_no_parent" {
		t.Errorf("activate child = %d %v", status, body)
	}

	f.store.Store(ctx, "themes/kid/style.css", []byte(style("Kid", "1.0", "twentytwentyfour")))
	status, body = f.do(t, "POST", "/mcp/v1/themes/activate", `{"stylesheet": "kid"}`)
	if status != http.StatusOK {
		t.Fatalf("activate kid = %d %v", status, body)
	}
	if raw, _ := f.opts.Raw("template"); raw != `"twentytwentyfour"` {
		t.Errorf("template = %s", raw)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.store.Store(context.Background(), "themes/old/style.css", []byte(style("Old", "1.0", "")))

	tests := []struct {
		name, stylesheet, code string
		status                 int
	}{
		{"active theme", "twentytwentyfour", "active_theme", http.StatusBadRequest},
		{"unknown theme", "nope", "theme_not_found", http.StatusNotFound},
		{"inactive theme", "old", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(t, "DELETE", "/mcp/v1/themes/delete?stylesheet="+tt.stylesheet, "")
			if status != tt.status {
				t.Fatalf("delete = %d %v", status, body)
			}
			if tt.code != "" && body["code"] != tt.code {
				t.Errorf("code = %v, want %s", body["code"], tt.code)
			}
		})
	}
}

type failingUpdates struct {
	*optionstest.Memory
	key string
}

func (f failingUpdates) Update(ctx context.Context, key string, dst any, autoload bool, fn options.UpdateFunc) error {
	if key == f.key {
		return errors.New("database unavailable")
	}
	return f.Memory.Update(ctx, key, dst, autoload, fn)
}

func TestDelete_PrunesUpdateTransient(t *testing.T) {
	ctx := context.Background()
	transient := map[string]any{
		"last_checked": 1,
		"checked":      map[string]any{"old": "1.0", "twentytwentyfour": "1.2"},
		"response": map[string]any{
			"old": map[string]any{"theme": "old", "new_version": "2.0"},
		},
	}

	t.Run("pruned", func(t *testing.T) {
		f := newFixture(t)
		f.opts.Seed("_site_transient_update_themes", transient)
		f.store.Store(ctx, "themes/old/style.css", []byte(style("Old", "1.0", "")))

		if err := f.sys.Delete(ctx, "old"); err != nil {
			t.Fatal(err)
		}
		raw, _ := f.opts.Raw("_site_transient_update_themes")
		if strings.Contains(raw, `"old"`) || !strings.Contains(raw, "twentytwentyfour") {
			t.Errorf("transient = %s", raw)
		}
	})

	t.Run("write failure logged", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logger)
		if err != nil {
			t.Fatal(err)
		}
		opts := failingUpdates{
			Memory: optionstest.New().
				Seed("stylesheet", "twentytwentyfour").
				Seed("template", "twentytwentyfour").
				Seed("_site_transient_update_themes", transient),
			key: "_site_transient_update_themes",
		}
		dir := &fakeDirectory{}
		sys := themes.New(store, opts, dir, upgrader.New(dir, store, logger, 1<<20), logger)
		store.Store(ctx, "themes/old/style.css", []byte(style("Old", "1.0", "")))

		if err := sys.Delete(ctx, "old"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if !strings.Contains(logs.String(), "failed to update theme update transient") ||
			!strings.Contains(logs.String(), "database unavailable") {
			t.Errorf("transient failure not logged:\n%s", logs.String())
		}
	})
}

func TestSearch_TrimsDescription(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "GET", "/mcp/v1/themes/search?search=astra", "")
	if status != http.StatusOK {
		t.Fatalf("search = %d %v", status, body)
	}
	theme := body["themes"].([]any)[0].(map[string]any)
	desc := theme["description"].(string)
	if !strings.HasSuffix(desc, "&hellip;") || len(strings.Fields(strings.TrimSuffix(desc, "&hellip;"))) != 30 {
		t.Errorf("description = %q", desc)
	}
	if theme["author"] != "Brainstorm Force" {
		t.Errorf("author = %v", theme["author"])
	}
}

func TestUpdateAll(t *testing.T) {
	f := newFixture(t)
	f.store.Store(context.Background(), "themes/astra/style.css", []byte(style("Astra", "4.0.0", "")))

	status, body := f.do(t, "POST", "/mcp/v1/themes/update-all", "")
	updated, _ := body["updated"].([]any)
	if status != http.StatusOK || len(updated) != 1 || updated[0] != "astra" {
		t.Fatalf("update-all = %d %v", status, body)
	}

	theme, err := f.sys.Find(context.Background(), "astra")
	if err != nil || theme.Version != "4.8.0" {
		t.Errorf("Find() = %+v, %v", theme, err)
	}
}
