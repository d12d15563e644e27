package widgets_test

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
	"sync"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/internal/widgets"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func ptr[T any](v T) *T { return &v }

func TestParseID(t *testing.T) {
	tests := []struct {
		id   string
		base string
		n    int
		ok   bool
	}{
		{"text-2", "text", 2, true},
		{"recent-posts-14", "recent-posts", 14, true},
		{"text", "", 0, false},
		{"text-", "", 0, false},
		{"-3", "", 0, false},
		{"text-2a", "", 0, false},
		{"text-+2", "", 0, false},
	}

	for _, tt := range tests {
		base, n, ok := widgets.ParseID(tt.id)
		if base != tt.base || n != tt.n || ok != tt.ok {
			t.Errorf("ParseID(%q) = %q, %d, %v", tt.id, base, n, ok)
		}
	}
}

func TestLayout(t *testing.T) {
	newLayout := func() widgets.Layout {
		return widgets.Layout{Sidebars: map[string][]string{
			"sidebar-1": {"text-1", "search-2", "meta-3"},
			"footer-1":  {},
		}}
	}

	t.Run("insert", func(t *testing.T) {
		tests := []struct {
			position *int
			want     []string
		}{
			{nil, []string{"text-1", "search-2", "meta-3", "new-1"}},
			{ptr(-1), []string{"text-1", "search-2", "meta-3", "new-1"}},
			{ptr(0), []string{"new-1", "text-1", "search-2", "meta-3"}},
			{ptr(1), []string{"text-1", "new-1", "search-2", "meta-3"}},
			{ptr(10), []string{"text-1", "search-2", "meta-3", "new-1"}},
		}
		for _, tt := range tests {
			l := newLayout()
			l.Insert("sidebar-1", "new-1", tt.position)
			if got := l.Sidebars["sidebar-1"]; !slices.Equal(got, tt.want) {
				t.Errorf("Insert at %v = %v, want %v", tt.position, got, tt.want)
			}
		}
	})

	t.Run("reorder keeps unlisted", func(t *testing.T) {
		l := newLayout()
		if _, ok := l.Reorder("sidebar-1", []string{"meta-3", "text-1", "meta-3"}); !ok {
			t.Fatal("Reorder rejected valid order")
		}
		want := []string{"meta-3", "text-1", "search-2"}
		if got := l.Sidebars["sidebar-1"]; !slices.Equal(got, want) {
			t.Errorf("Reorder = %v, want %v", got, want)
		}
	})

	t.Run("reorder rejects foreign widget", func(t *testing.T) {
		l := newLayout()
		missing, ok := l.Reorder("sidebar-1", []string{"text-1", "calendar-9"})
		if ok || missing != "calendar-9" {
			t.Errorf("Reorder = %q, %v", missing, ok)
		}
	})

	t.Run("remove", func(t *testing.T) {
		l := newLayout()
		if !l.Remove("search-2") || l.Remove("search-2") {
			t.Error("Remove should report only the first removal")
		}
		if sb, ok := l.Find("meta-3"); !ok || sb != "sidebar-1" {
			t.Errorf("Find(meta-3) = %q, %v", sb, ok)
		}
	})
}

func newSystem() (widgets.System, *optionstest.Memory) {
	opts := optionstest.New().Seed("sidebars_widgets", map[string]any{
		"wp_inactive_widgets": []string{},
		"sidebar-1":           []string{"text-1"},
		"array_version":       3,
	}).Seed("widget_text", map[string]any{
		"1":            map[string]any{"title": "Hello", "text": "World"},
		"_multiwidget": 1,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return widgets.New(opts, registry.New(nil), logger), opts
}

func TestSystem_Lifecycle(t *testing.T) {
	sys, opts := newSystem()
	ctx := context.Background()

	id, err := sys.Add(ctx, "sidebar-1", "text", map[string]any{"title": "Second"}, ptr(0))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != "text-2" {
		t.Errorf("Add id = %q, want text-2", id)
	}

	_, list, err := sys.Sidebar(ctx, "sidebar-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "text-2" || list[0].Name != "Text" {
		t.Errorf("Sidebar widgets = %+v", list)
	}

	if err := sys.Update(ctx, "text-1", map[string]any{"text": "Updated"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	w, err := sys.Get(ctx, "text-1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Settings["title"] != "Hello" || w.Settings["text"] != "Updated" {
		t.Errorf("merged settings = %v", w.Settings)
	}
	if w.SidebarID == nil || *w.SidebarID != "sidebar-1" {
		t.Errorf("sidebar = %v", w.SidebarID)
	}

	from, err := sys.Move(ctx, "text-1", "footer-1", nil)
	if err != nil || from != "sidebar-1" {
		t.Fatalf("Move = %q, %v", from, err)
	}

	if err := sys.Delete(ctx, "text-2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sys.Get(ctx, "text-2"); !errors.Is(err, widgets.ErrNotFound) {
		t.Errorf("Get deleted = %v", err)
	}

	raw, _ := opts.Raw("sidebars_widgets")
	if !strings.Contains(raw, `"array_version":3`) || !strings.Contains(raw, `"footer-1":["text-1"]`) {
		t.Errorf("sidebars_widgets = %s", raw)
	}
}

func TestSystem_ConcurrentAddsShareOptions(t *testing.T) {
	first, opts := newSystem()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	second := widgets.New(opts, registry.New(nil), logger)
	ctx := context.Background()

	const adds = 20
	ids := make([]string, adds)
	var wg sync.WaitGroup
	for i := range adds {
		sys := first
		if i%2 == 1 {
			sys = second
		}
		wg.Go(func() {
			id, err := sys.Add(ctx, "sidebar-1", "text", map[string]any{"n": i}, nil)
			if err != nil {
				t.Errorf("Add: %v", err)
				return
			}
			ids[i] = id
		})
	}
	wg.Wait()

	_, list, err := first.Sidebar(ctx, "sidebar-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != adds+1 {
		t.Fatalf("sidebar holds %d widgets, want %d", len(list), adds+1)
	}
	placed := map[string]bool{}
	for _, w := range list {
		placed[w.ID] = true
	}
	for _, id := range ids {
		if !placed[id] {
			t.Errorf("widget %s missing from sidebar", id)
		}
	}
}

func TestSystem_Errors(t *testing.T) {
	sys, _ := newSystem()
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown sidebar", func() error { _, err := sys.Add(ctx, "nowhere", "text", nil, nil); return err }, widgets.ErrSidebarNotFound},
		{"unknown type", func() error { _, err := sys.Add(ctx, "sidebar-1", "slider", nil, nil); return err }, widgets.ErrInvalidType},
		{"malformed update", func() error { return sys.Update(ctx, "text", nil) }, widgets.ErrInvalidFormat},
		{"missing update", func() error { return sys.Update(ctx, "text-9", nil) }, widgets.ErrNotFound},
		{"malformed delete", func() error { return sys.Delete(ctx, "oops") }, widgets.ErrInvalidFormat},
		{"unplaced delete", func() error { return sys.Delete(ctx, "search-4") }, widgets.ErrNotFound},
		{"foreign reorder", func() error { _, err := sys.Reorder(ctx, "sidebar-1", []string{"search-4"}); return err }, widgets.ErrInvalidWidget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandler_Add(t *testing.T) {
	sys, _ := newSystem()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, widgets.NewHandler(sys, logger).Routes())

	tests := []struct {
		body   string
		status int
		code   string
	}{
		{`{"widget_type":"text"}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{`{"sidebar_id":"sidebar-1","widget_type":"slider"}`, http.StatusBadRequest, "invalid_type"},
		{`{"sidebar_id":"sidebar-1","widget_type":"search","settings":{"title":"Find"}}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("POST", "/mcp/v1/widgets", strings.NewReader(tt.body)))

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.body, w.Code, tt.status)
		}
		if tt.code != "" && body["code"] != tt.code {
			t.Errorf("%s: code = %v, want %s", tt.body, body["code"], tt.code)
		}
		if tt.code == "" && body["widget_id"] != "search-1" {
			t.Errorf("widget_id = %v", body["widget_id"])
		}
	}
}
