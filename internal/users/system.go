// Package users manages site accounts, their roles and user meta.
package users

import (
	"context"
	"time"

	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
)

// User is the list view of an account.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Roles       []string  `json:"roles"`
	Registered  time.Time `json:"registered"`
}

// Detail is a single account with profile fields and effective capabilities.
type Detail struct {
	User
	Nickname     string   `json:"nickname"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Capabilities []string `json:"capabilities"`
	PostsCount   int64    `json:"posts_count"`
}

// Query selects a page of users.
type Query struct {
	pagination.PageRequest
	Role    string
	Search  string
	OrderBy string
	Desc    bool
}

// Page is one page of users with the overall match count.
type Page struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
}

type CreateCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Role      string
	Notify    bool
}

// UpdateCommand carries the profile fields to change. Nil fields are left untouched.
type UpdateCommand struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	DisplayName *string
	Description *string
	URL         *string
}

// RoleSummary is a registered role with its granted capabilities and member count.
type RoleSummary struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
	Count        int64    `json:"count"`
}

type System interface {
	List(ctx context.Context, q Query) (*Page, error)
	Find(ctx context.Context, id int64) (*Detail, error)
	Create(ctx context.Context, cmd CreateCommand) (*User, error)
	Update(ctx context.Context, id int64, cmd UpdateCommand) error

	// Delete removes the user. Their posts move to reassign when it is
	// non-zero and are deleted otherwise.
	Delete(ctx context.Context, id, reassign int64) error

	Roles(ctx context.Context) ([]RoleSummary, error)
	SetRole(ctx context.Context, id int64, role string) error

	// Meta returns the public meta of a user. Keys holding several values map to a list.
	Meta(ctx context.Context, id int64) (map[string]any, error)
	SetMeta(ctx context.Context, id int64, meta map[string]any) ([]string, error)
}
