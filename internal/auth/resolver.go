package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

// ErrUnknownUser is returned when the token subject no longer exists.
var ErrUnknownUser = errors.New("unknown user")

// Resolver loads the principal for a user ID.
type Resolver interface {
	Resolve(ctx context.Context, userID int64) (*Principal, error)
}

type dbResolver struct {
	db  *sql.DB
	reg *registry.Registry
}

// NewResolver resolves principals from wp_users and the wp_capabilities user meta.
func NewResolver(db *sql.DB, reg *registry.Registry) Resolver {
	return &dbResolver{db: db, reg: reg}
}

func (r *dbResolver) Resolve(ctx context.Context, userID int64) (*Principal, error) {
	var (
		login string
		raw   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT u.user_login, m.meta_value
		FROM wp_users u
		LEFT JOIN wp_usermeta m ON m.user_id = u.id AND m.meta_key = 'wp_capabilities'
		WHERE u.id = $1
		LIMIT 1`, userID,
	).Scan(&login, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	roles := RolesFromMeta(raw.String)
	return &Principal{
		UserID:       userID,
		Login:        login,
		Roles:        roles,
		Capabilities: r.reg.Capabilities(roles...),
	}, nil
}

// RolesFromMeta extracts granted role names from a wp_capabilities value
// such as {"administrator": true}. Malformed values grant no roles.
func RolesFromMeta(raw string) []string {
	var m map[string]bool
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return []string{}
	}
	roles := make([]string, 0, len(m))
	for role, granted := range m {
		if granted {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles
}
