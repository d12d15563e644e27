package auth

import "context"

// Principal is the authenticated caller.
type Principal struct {
	UserID       int64
	Login        string
	Roles        []string
	Capabilities map[string]bool
}

// Can reports whether the principal holds capability.
func (p *Principal) Can(capability string) bool {
	return p != nil && p.Capabilities[capability]
}

type principalKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the authorizer, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// UserID returns the authenticated user ID, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	if p := FromContext(ctx); p != nil {
		return p.UserID
	}
	return 0
}

// Permission tiers gating the REST routes.
const (
	CapManageOptions  = "manage_options"
	CapInstallPlugins = "install_plugins"
)
