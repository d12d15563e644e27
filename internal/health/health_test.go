package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/core"
	"github.com/JaimeStill/mcp-endpoints/internal/health"
	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/internal/scheduler"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

type fakeCore struct {
	core.System
	update bool
}

func (f fakeCore) Version(ctx context.Context) (*core.VersionInfo, error) {
	return &core.VersionInfo{WordPressVersion: "6.6", DatabaseVersion: "16.4", UpdateAvailable: f.update}, nil
}

type fakePlugins struct {
	plugins.System
	updates  map[string]plugins.Update
	checkErr error
}

func (f fakePlugins) List(ctx context.Context) ([]plugins.Plugin, error) {
	return []plugins.Plugin{
		{File: "akismet/akismet.php", Name: "Akismet", Version: "5.0", Active: true},
		{File: "hello.php", Name: "Hello Dolly", Version: "1.7"},
		{File: "seo/seo.php", Name: "SEO", Version: "2.1", Active: true},
	}, nil
}

func (f fakePlugins) CheckUpdates(ctx context.Context) (int, error) {
	return len(f.updates), f.checkErr
}

func (f fakePlugins) Updates(ctx context.Context) (map[string]plugins.Update, error) {
	return f.updates, nil
}

type fakeThemes struct {
	themes.System
	updates map[string]themes.Update
}

func (f fakeThemes) Updates(ctx context.Context) (map[string]themes.Update, error) {
	return f.updates, nil
}

type fakeDatabase struct{}

func (fakeDatabase) Info(ctx context.Context) (*health.DatabaseInfo, error) {
	return &health.DatabaseInfo{ServerVersion: "16.4", Name: "wordpress", Charset: "UTF8", Collate: "en_US.utf8"}, nil
}

type fixture struct {
	sys   health.System
	sched *scheduler.Scheduler
	mux   *http.ServeMux
}

func newFixture(t *testing.T, site health.Site, c fakeCore, p fakePlugins, th fakeThemes) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logger)
	if err != nil {
		t.Fatal(err)
	}
	sched := scheduler.New(optionstest.New(), registry.New(nil), scheduler.Config{}, logger)

	sys := health.New(health.Deps{
		Site:      site,
		Core:      c,
		Plugins:   p,
		Themes:    th,
		Scheduler: sched,
		Database:  fakeDatabase{},
		Storage:   store,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	for _, route := range health.NewHandler(sys, logger).Routes().Routes {
		mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}
	return &fixture{sys: sys, sched: sched, mux: mux}
}

func (f *fixture) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestScore(t *testing.T) {
	tests := []struct {
		issues     int
		wantScore  int
		wantStatus string
	}{
		{0, 100, "good"},
		{2, 80, "good"},
		{3, 70, "warning"},
		{4, 60, "warning"},
		{5, 50, "critical"},
		{12, 0, "critical"},
	}

	for _, tt := range tests {
		score, status := health.Score(tt.issues)
		if score != tt.wantScore || status != tt.wantStatus {
			t.Errorf("Score(%d) = %d %s, want %d %s", tt.issues, score, status, tt.wantScore, tt.wantStatus)
		}
	}
}

func TestSystem_Check(t *testing.T) {
	tests := []struct {
		name       string
		site       health.Site
		core       fakeCore
		plugins    fakePlugins
		themes     fakeThemes
		wantIssues []string
		wantTotal  int
		wantStatus string
	}{
		{
			name:       "healthy",
			site:       health.Site{URL: "https://example.com"},
			wantIssues: []string{},
			wantStatus: "good",
		},
		{
			name: "every issue",
			site: health.Site{URL: "http://example.com", Debug: true},
			core: fakeCore{update: true},
			plugins: fakePlugins{updates: map[string]plugins.Update{
				"akismet/akismet.php": {NewVersion: "5.1"},
			}},
			themes: fakeThemes{updates: map[string]themes.Update{
				"twentytwenty": {NewVersion: "2.0"},
			}},
			wantIssues: []string{"WP_DEBUG is enabled", "Site not using HTTPS", "3 updates available"},
			wantTotal:  3,
			wantStatus: "warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.site, tt.core, tt.plugins, tt.themes)
			rep, err := f.sys.Check(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if rep.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", rep.Status, tt.wantStatus)
			}
			if rep.Updates.Total != tt.wantTotal {
				t.Errorf("updates total = %d, want %d", rep.Updates.Total, tt.wantTotal)
			}
			if strings.Join(rep.Issues, "|") != strings.Join(tt.wantIssues, "|") {
				t.Errorf("issues = %v, want %v", rep.Issues, tt.wantIssues)
			}
			if rep.SSL != strings.HasPrefix(tt.site.URL, "https") {
				t.Errorf("ssl = %v", rep.SSL)
			}
		})
	}
}

func TestHandler_Plugins(t *testing.T) {
	p := fakePlugins{
		updates:  map[string]plugins.Update{"seo/seo.php": {NewVersion: "2.2"}},
		checkErr: errors.New("offline"),
	}
	f := newFixture(t, health.Site{}, fakeCore{}, p, fakeThemes{})

	code, body := f.do(t, "GET", "/health/plugins", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["total"] != float64(3) || body["active"] != float64(2) || body["inactive"] != float64(1) {
		t.Errorf("counts = %v", body)
	}
	if body["updates_available"] != float64(1) {
		t.Errorf("updates_available = %v", body["updates_available"])
	}

	list := body["plugins"].([]any)
	for _, item := range list {
		entry := item.(map[string]any)
		switch entry["file"] {
		case "seo/seo.php":
			if entry["update_available"] != true || entry["new_version"] != "2.2" {
				t.Errorf("seo entry = %v", entry)
			}
		default:
			if entry["new_version"] != nil {
				t.Errorf("%s new_version = %v, want null", entry["file"], entry["new_version"])
			}
		}
	}
}

func TestHandler_Cron(t *testing.T) {
	f := newFixture(t, health.Site{}, fakeCore{}, fakePlugins{}, fakeThemes{})
	ctx := context.Background()

	var ran []any
	f.sched.Handle("my_hook", func(ctx context.Context, args []any) error {
		ran = args
		return nil
	})
	base := time.Unix(1700000000, 0)
	for i := range 55 {
		if err := f.sched.Schedule(ctx, base.Add(time.Duration(i)*time.Minute), "", "filler_hook", []any{i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.sched.Schedule(ctx, base.Add(-time.Hour), "hourly", "my_hook", []any{"x"}); err != nil {
		t.Fatal(err)
	}

	code, body := f.do(t, "GET", "/health/cron", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["total_events"] != float64(56) {
		t.Errorf("total_events = %v", body["total_events"])
	}
	events := body["events"].([]any)
	if len(events) != 50 {
		t.Errorf("events = %d, want 50", len(events))
	}
	if first := events[0].(map[string]any); first["hook"] != "my_hook" || first["schedule"] != "hourly" {
		t.Errorf("first event = %v", first)
	}
	if _, ok := body["schedules"].(map[string]any)["daily"]; !ok {
		t.Errorf("schedules = %v", body["schedules"])
	}

	code, body = f.do(t, "POST", "/health/cron/run", `{"hook":"my_hook"}`)
	if code != http.StatusOK || body["executed"] != true {
		t.Fatalf("run = %d %v", code, body)
	}
	if len(ran) != 1 || ran[0] != "x" {
		t.Errorf("handler args = %v", ran)
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"missing hook", `{}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"unknown hook", `{"hook":"nope"}`, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := f.do(t, "POST", "/health/cron/run", tt.body)
			if code != tt.wantCode || body["code"] != tt.wantErr {
				t.Errorf("got %d %v, want %d %s", code, body, tt.wantCode, tt.wantErr)
			}
		})
	}
}

func TestHandler_DebugAndRuntime(t *testing.T) {
	site := health.Site{URL: "https://example.com", TablePrefix: "wp_", Debug: true, MemoryLimit: "256M"}
	f := newFixture(t, site, fakeCore{}, fakePlugins{}, fakeThemes{})

	code, body := f.do(t, "GET", "/health/debug", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	db := body["database"].(map[string]any)
	if db["database_name"] != "wordpress" || db["table_prefix"] != "wp_" {
		t.Errorf("database = %v", db)
	}
	if body["constants"].(map[string]any)["WP_DEBUG"] != true {
		t.Errorf("constants = %v", body["constants"])
	}
	paths := body["paths"].(map[string]any)
	if !strings.HasSuffix(paths["plugins"].(string), "plugins") {
		t.Errorf("paths = %v", paths)
	}

	code, body = f.do(t, "GET", "/health/php", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if !strings.HasPrefix(body["version"].(string), "go") || body["memory_limit"] != "256M" {
		t.Errorf("runtime = %v", body)
	}
}
