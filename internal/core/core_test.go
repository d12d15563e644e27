package core_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/core"
	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

type fakeStats struct{}

func (fakeStats) DatabaseVersion(ctx context.Context) (string, error) { return "16.4", nil }

func (fakeStats) Counts(ctx context.Context) (core.Counts, error) {
	return core.Counts{Posts: 3, Pages: 1, Users: 2}, nil
}

type fakeDirectory struct {
	wporg.Directory
	offers  []wporg.CoreOffer
	archive []byte
}

func (f *fakeDirectory) CoreVersionCheck(ctx context.Context, version, locale string) ([]wporg.CoreOffer, error) {
	return f.offers, nil
}

func (f *fakeDirectory) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	return f.archive, nil
}

func coreArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("wordpress/wp-includes/version.php")
	w.Write([]byte("<?php $wp_version = '6.7';"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fixture struct {
	opts  *optionstest.Memory
	store storage.System
	mux   *http.ServeMux
}

func newFixture(t *testing.T, site core.Site, offers []wporg.CoreOffer) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logger)
	if err != nil {
		t.Fatal(err)
	}

	dir := &fakeDirectory{offers: offers, archive: coreArchive(t)}
	opts := optionstest.New().Seed("_transient_feed_x", "cached").Seed("_site_transient_theme_roots", "{}").Seed("rewrite_rules", "{}")
	up := upgrader.New(dir, store, logger, 1<<20)

	sys := core.New(core.Deps{
		Site:     site,
		Stats:    fakeStats{},
		Options:  opts,
		Plugins:  plugins.New(store, opts, dir, up, logger),
		Themes:   themes.New(store, opts, dir, up, logger),
		Storage:  store,
		Dir:      dir,
		Upgrader: up,
		Logger:   logger,
	})

	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, core.NewHandler(sys, logger).Routes())
	return &fixture{opts: opts, store: store, mux: mux}
}

func (f *fixture) do(t *testing.T, method, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func offer(version string) wporg.CoreOffer {
	o := wporg.CoreOffer{Response: "upgrade", Version: version}
	o.Packages.Full = "https://downloads.example/wordpress-" + version + ".zip"
	return o
}

func TestCheckUpdates(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.6.2"}, []wporg.CoreOffer{offer("6.7")})

	status, body := f.do(t, "POST", "/mcp/v1/core/check-updates")
	if status != http.StatusOK || body["core"] != "6.7" || body["plugins"] != float64(0) || body["themes"] != float64(0) {
		t.Fatalf("check-updates = %d %v", status, body)
	}

	status, body = f.do(t, "GET", "/mcp/v1/core/version")
	if status != http.StatusOK || body["update_available"] != true || body["latest_version"] != "6.7" || body["database_version"] != "16.4" {
		t.Errorf("version = %d %v", status, body)
	}
}

func TestCheckUpdates_Current(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.7"}, []wporg.CoreOffer{{Response: "latest", Version: "6.7"}})

	_, body := f.do(t, "POST", "/mcp/v1/core/check-updates")
	if v, ok := body["core"]; !ok || v != nil {
		t.Errorf("core = %v, want null", body["core"])
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.6.2"}, []wporg.CoreOffer{offer("6.7")})

	status, body := f.do(t, "POST", "/mcp/v1/core/update")
	if status != http.StatusOK || body["updated"] != true || body["version"] != "6.7" {
		t.Fatalf("update = %d %v", status, body)
	}
	if raw, _ := f.opts.Raw("wp_version"); raw != `"6.7"` {
		t.Errorf("wp_version = %s", raw)
	}
	if _, err := f.store.Retrieve(context.Background(), "core/wordpress/wp-includes/version.php"); err != nil {
		t.Errorf("core files not unpacked: %v", err)
	}

	status, body = f.do(t, "POST", "/mcp/v1/core/update")
	if status != http.StatusOK || body["updated"] != false || body["message"] == nil {
		t.Errorf("second update = %d %v", status, body)
	}
}

func TestUpdate_Disallowed(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.6.2", DisallowUpdates: true}, []wporg.CoreOffer{offer("6.7")})

	status, body := f.do(t, "POST", "/mcp/v1/core/update")
	if status != http.StatusBadRequest || body["code"] != "updates_disabled" {
		t.Errorf("update = %d %v", status, body)
	}
}

func TestFlush(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.6.2"}, nil)

	status, body := f.do(t, "POST", "/mcp/v1/core/flush-cache")
	if status != http.StatusOK || body["flushed"] != true || body["transients_deleted"] != float64(2) {
		t.Errorf("flush-cache = %d %v", status, body)
	}

	status, body = f.do(t, "POST", "/mcp/v1/core/flush-rewrite")
	if status != http.StatusOK || body["flushed"] != true {
		t.Errorf("flush-rewrite = %d %v", status, body)
	}
	if _, ok := f.opts.Raw("rewrite_rules"); ok {
		t.Error("rewrite_rules still present")
	}
}

func TestSystemInfo(t *testing.T) {
	f := newFixture(t, core.Site{Version: "6.6.2", URL: "https://example.org", MaxUploadSize: 64 << 20}, nil)

	status, body := f.do(t, "GET", "/mcp/v1/core/system-info")
	if status != http.StatusOK {
		t.Fatalf("system-info = %d %v", status, body)
	}
	server := body["server"].(map[string]any)
	if server["max_upload_size"] != "64MiB" {
		t.Errorf("max_upload_size = %v", server["max_upload_size"])
	}
	counts := body["counts"].(map[string]any)
	if counts["posts"] != float64(3) || counts["users"] != float64(2) {
		t.Errorf("counts = %v", counts)
	}
}

func TestLatestOffer(t *testing.T) {
	offers := []wporg.CoreOffer{
		{Response: "latest", Version: "6.6.2"},
		offer("6.7"),
		offer("6.7.1"),
		{Response: "development", Version: "6.8-beta1"},
	}
	if got := core.LatestOffer(offers, "6.6.2"); got == nil || got.Version != "6.7.1" {
		t.Errorf("LatestOffer() = %+v", got)
	}
	if got := core.LatestOffer(offers, "6.7.1"); got != nil {
		t.Errorf("LatestOffer(current) = %+v, want nil", got)
	}
}
