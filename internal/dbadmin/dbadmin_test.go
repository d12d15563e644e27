package dbadmin_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/dbadmin"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func TestSelectTables(t *testing.T) {
	available := []string{"schema_migrations", "wp_options", "wp_posts"}

	got, err := dbadmin.SelectTables(nil, available, "wp_")
	if err != nil || !slices.Equal(got, []string{"wp_options", "wp_posts"}) {
		t.Errorf("SelectTables(default) = %v, %v", got, err)
	}

	got, err = dbadmin.SelectTables([]string{"wp_posts", "wp_posts"}, available, "wp_")
	if err != nil || !slices.Equal(got, []string{"wp_posts"}) {
		t.Errorf("SelectTables(explicit) = %v, %v", got, err)
	}

	_, err = dbadmin.SelectTables([]string{"wp_posts; DROP TABLE wp_users"}, available, "wp_")
	if !errors.Is(err, dbadmin.ErrInvalidTable) {
		t.Errorf("SelectTables(unknown) error = %v, want invalid_table", err)
	}
}

type fakeSystem struct {
	dbadmin.System
	got  dbadmin.SearchReplace
	keep int
}

func (f *fakeSystem) SearchReplace(ctx context.Context, req dbadmin.SearchReplace) (*dbadmin.SearchReplaceResult, error) {
	f.got = req
	if req.Search == "" {
		return nil, dbadmin.ErrEmptySearch
	}
	return &dbadmin.SearchReplaceResult{DryRun: req.DryRun, Search: req.Search, Replace: req.Replace, Tables: map[string]int64{}}, nil
}

func (f *fakeSystem) CleanRevisions(ctx context.Context, keep int) (int64, error) {
	f.keep = keep
	return 4, nil
}

func (f *fakeSystem) Tables(ctx context.Context) ([]dbadmin.Table, error) {
	return []dbadmin.Table{
		{Name: "wp_posts", DataMB: 1.25, IndexMB: 0.5, Rows: 10},
		{Name: "wp_options", DataMB: 0.25, IndexMB: 0.1, Rows: 90},
	}, nil
}

func newMux(sys dbadmin.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, dbadmin.NewHandler(sys, logger).Routes())
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, r))

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestSearchReplace(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
		dryRun bool
	}{
		{"defaults to dry run", `{"search": "http://old", "replace": "https://new"}`, http.StatusOK, "", true},
		{"explicit run", `{"search": "a", "replace": "", "dry_run": false}`, http.StatusOK, "", false},
		{"empty search", `{"search": "", "replace": "x"}`, http.StatusBadRequest, "empty_search", true},
		{"missing replace", `{"search": "a"}`, http.StatusBadRequest, "rest_missing_callback_param", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &fakeSystem{}
			status, body := do(t, newMux(sys), "POST", "/mcp/v1/db/search-replace", tt.body)
			if status != tt.status {
				t.Fatalf("status = %d %v", status, body)
			}
			if tt.code != "" && body["code"] != tt.code {
				t.Errorf("code = %v, want %s", body["code"], tt.code)
			}
			if tt.status == http.StatusOK && body["dry_run"] != tt.dryRun {
				t.Errorf("dry_run = %v, want %v", body["dry_run"], tt.dryRun)
			}
		})
	}
}

func TestCleanRevisions_DefaultKeep(t *testing.T) {
	sys := &fakeSystem{}
	status, body := do(t, newMux(sys), "POST", "/mcp/v1/db/clean-revisions", "")
	if status != http.StatusOK || sys.keep != 5 || body["kept_per_post"] != float64(5) || body["deleted"] != float64(4) {
		t.Errorf("clean-revisions = %d %v (keep %d)", status, body, sys.keep)
	}
}

func TestTables_TotalSize(t *testing.T) {
	status, body := do(t, newMux(&fakeSystem{}), "GET", "/mcp/v1/db/tables", "")
	if status != http.StatusOK || body["total_size_mb"] != 2.1 {
		t.Errorf("tables = %d %v", status, body)
	}
}
