package cpt_test

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

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/cpt"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func TestParseStatuses(t *testing.T) {
	include, exclude := cpt.ParseStatuses("any")
	if include != nil || !slices.Equal(exclude, []string{"trash", "auto-draft"}) {
		t.Errorf("ParseStatuses(any) = %v, %v", include, exclude)
	}

	include, exclude = cpt.ParseStatuses("publish, draft,publish")
	if !slices.Equal(include, []string{"publish", "draft"}) || exclude != nil {
		t.Errorf("ParseStatuses(list) = %v, %v", include, exclude)
	}
}

func TestLabels(t *testing.T) {
	labels := cpt.Labels(registry.PostType{Label: "Books", Singular: "Book"})
	if labels["add_new_item"] != "Add New Book" || labels["not_found"] != "No books found." {
		t.Errorf("Labels() = %v", labels)
	}
}

type fakeSystem struct {
	cpt.System
	query   cpt.PostQuery
	created cpt.CreateCommand
	force   bool
}

func (f *fakeSystem) Posts(ctx context.Context, postType string, q cpt.PostQuery) (*cpt.PostPage, error) {
	if postType != "post" {
		return nil, cpt.ErrTypeNotFound
	}
	f.query = q
	return &cpt.PostPage{Posts: []cpt.PostView{}, Page: q.Page}, nil
}

func (f *fakeSystem) Create(ctx context.Context, postType string, cmd cpt.CreateCommand) (*content.Post, error) {
	f.created = cmd
	return &content.Post{ID: 42, Type: postType}, nil
}

func (f *fakeSystem) Delete(ctx context.Context, postType string, id int64, force bool) (bool, error) {
	f.force = force
	if id == 404 {
		return false, content.ErrPostNotFound
	}
	return !force, nil
}

func newMux(sys cpt.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := cpt.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, "https://example.org/wp-admin/")
	mux := http.NewServeMux()
	routes.Register(mux, "/mcp/v1", nil, nil, h.Routes())
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

func TestPosts_QueryDefaults(t *testing.T) {
	sys := &fakeSystem{}
	status, body := do(t, newMux(sys), "GET", "/mcp/v1/cpt/post/posts", "")
	if status != http.StatusOK {
		t.Fatalf("posts = %d %v", status, body)
	}
	q := sys.query
	if q.Page != 1 || q.PerPage != 20 || q.OrderBy != "date" || !q.Desc || q.Statuses != nil {
		t.Errorf("query = %+v", q)
	}
}

func TestPosts_Validation(t *testing.T) {
	tests := []struct {
		name, path string
		status     int
		code       string
	}{
		{"bad orderby", "/mcp/v1/cpt/post/posts?orderby=rand", http.StatusBadRequest, "rest_invalid_param"},
		{"bad order", "/mcp/v1/cpt/post/posts?order=sideways", http.StatusBadRequest, "rest_invalid_param"},
		{"unknown type", "/mcp/v1/cpt/book/posts", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, newMux(&fakeSystem{}), "GET", tt.path, "")
			if status != tt.status || body["code"] != tt.code {
				t.Errorf("GET %s = %d %v", tt.path, status, body)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)

	status, body := do(t, mux, "POST", "/mcp/v1/cpt/post/posts", `{"content": "no title"}`)
	if status != http.StatusBadRequest {
		t.Errorf("create without title = %d %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/cpt/post/posts", `{"title": "Hello", "meta": {"color": "blue"}}`)
	if status != http.StatusOK || body["id"] != float64(42) || body["created"] != true {
		t.Fatalf("create = %d %v", status, body)
	}
	if body["edit_url"] != "https://example.org/wp-admin/post.php?post=42&action=edit" {
		t.Errorf("edit_url = %v", body["edit_url"])
	}
	if sys.created.Meta["color"] != "blue" {
		t.Errorf("meta = %v", sys.created.Meta)
	}
}

func TestDelete(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)

	status, body := do(t, mux, "DELETE", "/mcp/v1/cpt/post/posts/7", "")
	if status != http.StatusOK || body["trashed"] != true || sys.force {
		t.Errorf("delete = %d %v", status, body)
	}

	status, body = do(t, mux, "DELETE", "/mcp/v1/cpt/post/posts/7?force=true", "")
	if status != http.StatusOK || body["trashed"] != false || !sys.force {
		t.Errorf("force delete = %d %v", status, body)
	}

	status, body = do(t, mux, "DELETE", "/mcp/v1/cpt/post/posts/404", "")
	if status != http.StatusNotFound || body["message"] != "Post not found" {
		t.Errorf("delete missing = %d %v", status, body)
	}
}
