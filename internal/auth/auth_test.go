package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

const secret = "0123456789abcdef0123456789abcdef"

type staticResolver map[int64][]string

func (s staticResolver) Resolve(ctx context.Context, userID int64) (*auth.Principal, error) {
	roles, ok := s[userID]
	if !ok {
		return nil, auth.ErrUnknownUser
	}
	return &auth.Principal{
		UserID:       userID,
		Roles:        roles,
		Capabilities: registry.New(nil).Capabilities(roles...),
	}, nil
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens(secret, "test", time.Hour)

	token, expires, err := tokens.Issue(7, 0)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(expires) < 59*time.Minute {
		t.Errorf("expires = %v, want about one hour", expires)
	}

	id, err := tokens.Verify(token)
	if err != nil || id != 7 {
		t.Errorf("Verify() = %d, %v", id, err)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens := auth.NewTokens(secret, "test", time.Hour)
	good, _, _ := tokens.Issue(1, 0)
	other, _, _ := auth.NewTokens(secret, "other", time.Hour).Issue(1, 0)
	forged, _, _ := auth.NewTokens("ffffffffffffffffffffffffffffffff", "test", time.Hour).Issue(1, 0)

	tests := map[string]string{
		"garbage":      "not-a-jwt",
		"wrong issuer": other,
		"wrong secret": forged,
		"tampered":     good + "x",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, _, err := tokens.Issue(0, 0); err == nil {
		t.Error("Issue(0) error = nil")
	}
}

func TestRolesFromMeta(t *testing.T) {
	got := auth.RolesFromMeta(`{"editor": true, "author": false, "administrator": true}`)
	if len(got) != 2 || got[0] != "administrator" || got[1] != "editor" {
		t.Errorf("RolesFromMeta() = %v", got)
	}
	if got := auth.RolesFromMeta("a:1:{}"); len(got) != 0 {
		t.Errorf("RolesFromMeta(malformed) = %v", got)
	}
}

func TestAuthorizer_Require(t *testing.T) {
	tokens := auth.NewTokens(secret, "test", time.Hour)
	resolver := staticResolver{1: {"administrator"}, 2: {"editor"}}
	authz := auth.NewAuthorizer(tokens, resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))

	admin, _, _ := tokens.Issue(1, 0)
	editor, _, _ := tokens.Issue(2, 0)
	ghost, _, _ := tokens.Issue(3, 0)

	var seen int64
	handler := authz.Require("manage_options")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized},
		{"lacks capability", "Bearer " + editor, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				if seen != 1 {
					t.Errorf("principal user id = %d", seen)
				}
				return
			}

			var body struct {
				Code string `json:"code"`
				Data struct {
					Status int `json:"status"`
				} `json:"data"`
			}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body.Code != "rest_forbidden" || body.Data.Status != tt.status {
				t.Errorf("envelope = %+v", body)
			}
		})
	}
}
