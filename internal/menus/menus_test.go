package menus_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/menus"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func ptr[T any](v T) *T { return &v }

func TestResolvePosition(t *testing.T) {
	tests := []struct {
		name      string
		last      int
		requested *int
		pos       int
		shift     bool
	}{
		{"append to empty", 0, nil, 1, false},
		{"append", 4, nil, 5, false},
		{"zero appends", 4, ptr(0), 5, false},
		{"negative appends", 4, ptr(-2), 5, false},
		{"explicit", 4, ptr(2), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, shift := menus.ResolvePosition(tt.last, tt.requested)
			if pos != tt.pos || shift != tt.shift {
				t.Errorf("ResolvePosition = %d, %v; want %d, %v", pos, shift, tt.pos, tt.shift)
			}
		})
	}
}

func TestLocationsOf(t *testing.T) {
	assigned := map[string]int64{"primary": 3, "footer": 3, "social": 4, "mobile": 0}
	if got := menus.LocationsOf(assigned, 3); !slices.Equal(got, []string{"footer", "primary"}) {
		t.Errorf("LocationsOf(3) = %v", got)
	}
	if got := menus.LocationsOf(assigned, 0); len(got) != 0 {
		t.Errorf("LocationsOf(0) = %v", got)
	}
}

func TestLinkURL(t *testing.T) {
	site := "https://example.org"
	tests := []struct {
		kind, object string
		id           int64
		slug, want   string
	}{
		{"post_type", "post", 12, "hello", "https://example.org/?p=12"},
		{"post_type", "page", 2, "about", "https://example.org/?page_id=2"},
		{"taxonomy", "category", 5, "news", "https://example.org/?cat=5"},
		{"taxonomy", "post_tag", 8, "go lang", "https://example.org/?tag=go+lang"},
		{"taxonomy", "genre", 9, "jazz", "https://example.org/?genre=jazz"},
		{"custom", "custom", 1, "", ""},
	}

	for _, tt := range tests {
		if got := menus.LinkURL(site, tt.kind, tt.object, tt.id, tt.slug); got != tt.want {
			t.Errorf("LinkURL(%s, %s) = %q, want %q", tt.kind, tt.object, got, tt.want)
		}
	}
}

type fakeSystem struct {
	menus.System
	item     menus.ItemInput
	location string
	menuID   int64
}

func (f *fakeSystem) Create(ctx context.Context, name string) (*menus.Menu, error) {
	if name == "Primary" {
		return nil, menus.ErrMenuExists
	}
	return &menus.Menu{ID: 11, Name: name}, nil
}

func (f *fakeSystem) AddItem(ctx context.Context, menuID int64, in menus.ItemInput) (int64, error) {
	if menuID == 404 {
		return 0, menus.ErrNotFound
	}
	f.item = in
	return 99, nil
}

func (f *fakeSystem) Assign(ctx context.Context, location string, menuID int64) error {
	if location != "primary" {
		return menus.ErrInvalidLocation
	}
	f.location, f.menuID = location, menuID
	return nil
}

func newMux(sys menus.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, menus.NewHandler(sys, logger).Routes())
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

func TestCreate(t *testing.T) {
	mux := newMux(&fakeSystem{})

	status, body := do(t, mux, "POST", "/mcp/v1/menus", `{"name":"Footer"}`)
	if status != http.StatusOK || body["id"] != float64(11) || body["created"] != true {
		t.Errorf("status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/menus", `{"name":"Primary"}`)
	if status != http.StatusBadRequest || body["code"] != "menu_exists" {
		t.Errorf("duplicate: status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/menus", `{"name":"  "}`)
	if status != http.StatusBadRequest || body["code"] != "rest_missing_callback_param" {
		t.Errorf("blank: status = %d, body = %v", status, body)
	}
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"custom link", "/mcp/v1/menus/3/items", `{"title":"Docs","url":"https://example.org/docs","position":2}`, http.StatusOK, ""},
		{"missing title", "/mcp/v1/menus/3/items", `{"url":"https://example.org"}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"post without object", "/mcp/v1/menus/3/items", `{"title":"About","object_type":"post_type"}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"missing menu", "/mcp/v1/menus/404/items", `{"title":"Docs"}`, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &fakeSystem{}
			status, body := do(t, newMux(sys), "POST", tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%v)", status, tt.status, body)
			}
			if tt.code != "" {
				if body["code"] != tt.code {
					t.Errorf("code = %v, want %s", body["code"], tt.code)
				}
				return
			}
			if body["id"] != float64(99) || body["menu_id"] != float64(3) {
				t.Errorf("body = %v", body)
			}
			if sys.item.Position == nil || *sys.item.Position != 2 || *sys.item.Title != "Docs" {
				t.Errorf("input = %+v", sys.item)
			}
		})
	}
}

func TestAssign(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)

	status, body := do(t, mux, "POST", "/mcp/v1/menus/locations/assign", `{"menu_id":0,"location":"primary"}`)
	if status != http.StatusOK || body["assigned"] != true || body["menu_id"] != float64(0) {
		t.Errorf("unassign: status = %d, body = %v", status, body)
	}
	if sys.location != "primary" || sys.menuID != 0 {
		t.Errorf("assigned %q to %d", sys.location, sys.menuID)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/menus/locations/assign", `{"menu_id":3,"location":"sidebar"}`)
	if status != http.StatusBadRequest || body["code"] != "invalid_location" {
		t.Errorf("unregistered: status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/menus/locations/assign", `{"location":"primary"}`)
	if status != http.StatusBadRequest || body["code"] != "rest_missing_callback_param" {
		t.Errorf("missing menu_id: status = %d, body = %v", status, body)
	}
}
