package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"flushed": true})

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), `"flushed":true`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRespondError_Envelope(t *testing.T) {
	notFound := handlers.NewError("option_not_found", "", http.StatusNotFound)

	tests := []struct {
		name       string
		status     int
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "api error",
			status:     http.StatusInternalServerError,
			err:        notFound.Withf("Option '%s' not found", "foo"),
			wantCode:   "option_not_found",
			wantStatus: http.StatusNotFound,
			wantMsg:    "Option 'foo' not found",
		},
		{
			name:       "plain error bad request",
			status:     http.StatusBadRequest,
			err:        errors.New("bad thing"),
			wantCode:   "error",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "bad thing",
		},
		{
			name:       "plain error hides internals",
			status:     http.StatusInternalServerError,
			err:        errors.New("pq: connection refused"),
			wantCode:   "internal_error",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.RespondError(w, discard(), tt.status, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var env envelope
			if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if env.Data.Status != tt.wantStatus {
				t.Errorf("data.status = %d, want %d", env.Data.Status, tt.wantStatus)
			}
		})
	}
}

func TestNewError_Defaults(t *testing.T) {
	e := handlers.NewError("", "oops", 0)
	if e.Code != "error" || e.Status != http.StatusBadRequest {
		t.Errorf("NewError defaults = (%q, %d), want (error, 400)", e.Code, e.Status)
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	base := handlers.NewError("theme_not_found", "Theme not found", http.StatusNotFound)
	derived := base.Withf("Theme '%s' not found", "twentyten")

	if !errors.Is(derived, base) {
		t.Error("errors.Is(derived, base) = false")
	}
	if errors.Is(derived, handlers.ErrInvalidJSON) {
		t.Error("errors.Is matched a different code")
	}
}

func TestDecodeJSON(t *testing.T) {
	var cmd struct {
		Slug string `json:"slug"`
	}

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := handlers.DecodeJSON(empty, &cmd); err != nil {
		t.Errorf("empty body error = %v", err)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := handlers.DecodeJSON(bad, &cmd); !errors.Is(err, handlers.ErrInvalidJSON) {
		t.Errorf("malformed body error = %v, want invalid_json", err)
	}

	ok := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slug":"akismet"}`))
	if err := handlers.DecodeJSON(ok, &cmd); err != nil || cmd.Slug != "akismet" {
		t.Errorf("DecodeJSON() = %v, slug %q", err, cmd.Slug)
	}
}

func TestQueryHelpers(t *testing.T) {
	values := url.Values{
		"per_page": {"15"},
		"force":    {"1"},
		"bad":      {"x"},
		"search":   {""},
	}

	if got := handlers.QueryInt(values, "per_page", 20); got != 15 {
		t.Errorf("QueryInt(per_page) = %d", got)
	}
	if got := handlers.QueryInt(values, "bad", 20); got != 20 {
		t.Errorf("QueryInt(bad) = %d", got)
	}
	if got := handlers.QueryBool(values, "force", false); !got {
		t.Error("QueryBool(force) = false")
	}
	if got := handlers.QueryBool(values, "missing", true); !got {
		t.Error("QueryBool(missing) = false, want default")
	}
	if got := handlers.QueryString(values, "search", "def"); got != "" {
		t.Errorf("QueryString(search) = %q, want empty", got)
	}
}

func TestHost(t *testing.T) {
	if handlers.Host(handlers.ErrDatabase, nil) != nil {
		t.Error("Host(nil) != nil")
	}

	raw := errors.New("connection refused")
	wrapped := handlers.Host(handlers.ErrDatabase, raw)
	if !errors.Is(wrapped, handlers.ErrDatabase) || !errors.Is(wrapped, raw) {
		t.Errorf("Host() = %v, want db_error wrapping cause", wrapped)
	}

	notFound := handlers.NewError("option_not_found", "Option not found", http.StatusNotFound)
	if got := handlers.Host(handlers.ErrDatabase, notFound); got != error(notFound) {
		t.Errorf("Host() rewrapped an envelope error: %v", got)
	}
}
