package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

// Authorizer verifies bearer tokens and checks capabilities before a route runs.
type Authorizer struct {
	tokens   *Tokens
	resolver Resolver
	logger   *slog.Logger
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(tokens *Tokens, resolver Resolver, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		tokens:   tokens,
		resolver: resolver,
		logger:   logger.With("system", "auth"),
	}
}

// Require returns middleware admitting only principals holding capability.
// Missing or invalid credentials yield 401, a missing capability 403.
func (a *Authorizer) Require(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.authenticate(r)
			if err != nil {
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, handlers.ErrNotLoggedIn.Wrap(err))
				return
			}
			if !p.Can(capability) {
				a.logger.Warn("capability denied", "user_id", p.UserID, "capability", capability)
				handlers.RespondError(w, a.logger, http.StatusForbidden, handlers.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func (a *Authorizer) authenticate(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, errors.New("missing bearer token")
	}

	userID, err := a.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	return a.resolver.Resolve(r.Context(), userID)
}
