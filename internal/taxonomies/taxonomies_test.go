package taxonomies_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/taxonomies"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func TestParseTermRefs(t *testing.T) {
	tests := []struct {
		name  string
		terms []any
		want  []taxonomies.TermRef
		ok    bool
	}{
		{"ids", []any{float64(3), float64(7)}, []taxonomies.TermRef{{ID: 3}, {ID: 7}}, true},
		{"numeric string", []any{"12"}, []taxonomies.TermRef{{ID: 12}}, true},
		{"names", []any{"News", " tech "}, []taxonomies.TermRef{{Name: "News"}, {Name: "tech"}}, true},
		{"empty strings dropped", []any{"", "  "}, []taxonomies.TermRef{}, true},
		{"fractional id", []any{1.5}, nil, false},
		{"negative id", []any{float64(-1)}, nil, false},
		{"object", []any{map[string]any{}}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := taxonomies.ParseTermRefs(tt.terms)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ref %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type fakeSystem struct {
	taxonomies.System
	filter   taxonomies.TermFilter
	input    taxonomies.TermInput
	assigned taxonomies.Assignment
}

func (f *fakeSystem) Terms(ctx context.Context, taxonomy string, tf taxonomies.TermFilter) ([]content.Term, error) {
	if taxonomy != "category" {
		return nil, taxonomies.ErrNotFound
	}
	f.filter = tf
	return []content.Term{{ID: 1, Name: "Uncategorized", Slug: "uncategorized", Taxonomy: "category"}}, nil
}

func (f *fakeSystem) CreateTerm(ctx context.Context, taxonomy string, in taxonomies.TermInput) (*content.Term, error) {
	f.input = in
	if *in.Name == "Dup" {
		return nil, content.ErrTermExists
	}
	return &content.Term{ID: 9, TaxonomyID: 19, Name: *in.Name, Slug: content.Slugify(*in.Name), Taxonomy: taxonomy}, nil
}

func (f *fakeSystem) DeleteTerm(ctx context.Context, taxonomy string, id int64) error {
	if id == 404 {
		return content.ErrTermNotFound
	}
	return nil
}

func (f *fakeSystem) Assign(ctx context.Context, a taxonomies.Assignment) ([]int64, error) {
	f.assigned = a
	return []int64{5, 6}, nil
}

func newMux(sys taxonomies.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, taxonomies.NewHandler(sys, logger).Routes())
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return rec.Code, out
}

func TestTerms_Filters(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)

	status, body := do(t, mux, "GET", "/mcp/v1/taxonomies/category/terms?hide_empty=true&parent=0&search=un", "")
	if status != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if !sys.filter.HideEmpty || sys.filter.Parent == nil || *sys.filter.Parent != 0 || sys.filter.Search != "un" {
		t.Errorf("filter = %+v", sys.filter)
	}

	status, body = do(t, mux, "GET", "/mcp/v1/taxonomies/genre/terms", "")
	if status != http.StatusNotFound || body["code"] != "invalid_taxonomy" {
		t.Errorf("unknown taxonomy: status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "GET", "/mcp/v1/taxonomies/category/terms?parent=x", "")
	if status != http.StatusBadRequest || body["code"] != "rest_invalid_param" {
		t.Errorf("bad parent: status = %d, body = %v", status, body)
	}
}

func TestCreateTerm(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)

	status, body := do(t, mux, "POST", "/mcp/v1/taxonomies/category/terms", `{"name":"Road Trips","description":"Out there"}`)
	if status != http.StatusOK || body["id"] != float64(9) || body["created"] != true || body["slug"] != "road-trips" {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if sys.input.Description == nil || *sys.input.Description != "Out there" {
		t.Errorf("input = %+v", sys.input)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/taxonomies/category/terms", `{}`)
	if status != http.StatusBadRequest || body["code"] != "rest_missing_callback_param" {
		t.Errorf("missing name: status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/taxonomies/category/terms", `{"name":"Dup"}`)
	if status != http.StatusBadRequest || body["code"] != "term_exists" {
		t.Errorf("duplicate: status = %d, body = %v", status, body)
	}
}

func TestDeleteTerm(t *testing.T) {
	mux := newMux(&fakeSystem{})

	status, body := do(t, mux, "DELETE", "/mcp/v1/taxonomies/post_tag/terms/3", "")
	if status != http.StatusOK || body["deleted"] != true {
		t.Errorf("status = %d, body = %v", status, body)
	}

	status, body = do(t, mux, "DELETE", "/mcp/v1/taxonomies/post_tag/terms/404", "")
	if status != http.StatusNotFound || body["code"] != "term_not_found" {
		t.Errorf("missing: status = %d, body = %v", status, body)
	}
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing post", `{"taxonomy":"category","terms":[1]}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"missing taxonomy", `{"post_id":1,"terms":[1]}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"missing terms", `{"post_id":1,"taxonomy":"category"}`, http.StatusBadRequest, "rest_missing_callback_param"},
		{"valid", `{"post_id":1,"taxonomy":"post_tag","terms":[4,"travel"],"append":true}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &fakeSystem{}
			status, body := do(t, newMux(sys), "POST", "/mcp/v1/taxonomies/assign", tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%v)", status, tt.status, body)
			}
			if tt.code != "" {
				if body["code"] != tt.code {
					t.Errorf("code = %v, want %s", body["code"], tt.code)
				}
				return
			}
			if body["appended"] != true || body["taxonomy"] != "post_tag" || len(body["terms"].([]any)) != 2 {
				t.Errorf("body = %v", body)
			}
			if len(sys.assigned.Terms) != 2 || !sys.assigned.Append {
				t.Errorf("assignment = %+v", sys.assigned)
			}
		})
	}
}
