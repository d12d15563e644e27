package options_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"blogname", "blogname"},
		{"Blog Name!", "blogname"},
		{"my-option_2", "my-option_2"},
		{"ÄÖÜ", ""},
	}
	for _, tt := range tests {
		if got := options.SanitizeKey(tt.in); got != tt.want {
			t.Errorf("SanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPathKey(t *testing.T) {
	for key, want := range map[string]bool{
		"blogname": true, "Site_URL-2": true, "": false, "a.b": false, "a b": false,
	} {
		if got := options.ValidPathKey(key); got != want {
			t.Errorf("ValidPathKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestDecodeValue(t *testing.T) {
	if got := options.DecodeValue(`{"a":1}`); got.(map[string]any)["a"] != float64(1) {
		t.Errorf("DecodeValue(object) = %v", got)
	}
	if got := options.DecodeValue("plain text"); got != "plain text" {
		t.Errorf("DecodeValue(non-json) = %v", got)
	}
}

func newMux(store options.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	h := options.NewHandler(store, logger, cfg)

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
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestHandler_SetReportsCreated(t *testing.T) {
	store := optionstest.New()
	mux := newMux(store)

	status, body := do(t, mux, "POST", "/mcp/v1/options/My_Option", `{"value": {"enabled": true}}`)
	if status != http.StatusOK || body["created"] != true || body["key"] != "my_option" {
		t.Fatalf("first set = %d %v", status, body)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/options/my_option", `{"value": 5, "autoload": false}`)
	if status != http.StatusOK || body["created"] != false || body["value"] != float64(5) {
		t.Fatalf("second set = %d %v", status, body)
	}
}

func TestHandler_SetRequiresValue(t *testing.T) {
	mux := newMux(optionstest.New())

	status, body := do(t, mux, "POST", "/mcp/v1/options/x", `{}`)
	if status != http.StatusBadRequest || body["code"] != "rest_missing_callback_param" {
		t.Errorf("set without value = %d %v", status, body)
	}
}

func TestHandler_GetAndDelete(t *testing.T) {
	store := optionstest.New().Seed("blogname", "My Site")
	mux := newMux(store)

	status, body := do(t, mux, "GET", "/mcp/v1/options/blogname", "")
	if status != http.StatusOK || body["value"] != "My Site" {
		t.Errorf("get = %d %v", status, body)
	}

	status, body = do(t, mux, "DELETE", "/mcp/v1/options/blogname", "")
	if status != http.StatusOK || body["deleted"] != true {
		t.Errorf("delete = %d %v", status, body)
	}

	status, body = do(t, mux, "GET", "/mcp/v1/options/blogname", "")
	data, _ := body["data"].(map[string]any)
	if status != http.StatusNotFound || body["code"] != "option_not_found" || data["status"] != float64(404) {
		t.Errorf("get after delete = %d %v", status, body)
	}

	status, _ = do(t, mux, "DELETE", "/mcp/v1/options/blogname", "")
	if status != http.StatusNotFound {
		t.Errorf("delete missing = %d", status)
	}
}

func TestHandler_RejectsInvalidPathKey(t *testing.T) {
	mux := newMux(optionstest.New())

	status, body := do(t, mux, "GET", "/mcp/v1/options/a.b", "")
	if status != http.StatusNotFound || body["code"] != "rest_no_route" {
		t.Errorf("invalid key = %d %v", status, body)
	}
}

func TestHandler_ListAndBulk(t *testing.T) {
	store := optionstest.New().
		Seed("widget_text", map[string]any{}).
		Seed("widget_search", map[string]any{}).
		Seed("blogname", "x")
	mux := newMux(store)

	status, body := do(t, mux, "GET", "/mcp/v1/options?prefix=widget_", "")
	if status != http.StatusOK || body["count"] != float64(2) {
		t.Fatalf("list = %d %v", status, body)
	}
	first := body["options"].([]any)[0].(map[string]any)
	if first["key"] != "widget_search" {
		t.Errorf("list not ordered by name: %v", first)
	}

	status, body = do(t, mux, "POST", "/mcp/v1/options-bulk", `{"keys": ["blogname", "missing"]}`)
	values := body["options"].(map[string]any)
	if status != http.StatusOK || values["blogname"] != "x" || values["missing"] != false {
		t.Errorf("bulk = %d %v", status, body)
	}

	status, _ = do(t, mux, "POST", "/mcp/v1/options-bulk", `{}`)
	if status != http.StatusBadRequest {
		t.Errorf("bulk without keys = %d", status)
	}
}
