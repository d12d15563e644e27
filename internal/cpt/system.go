// Package cpt exposes registered post types and CRUD over their posts.
package cpt

import (
	"context"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
)

// TypeSummary is a post type as listed by GET /cpt.
type TypeSummary struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Singular     string   `json:"singular"`
	Public       bool     `json:"public"`
	Hierarchical bool     `json:"hierarchical"`
	HasArchive   bool     `json:"has_archive"`
	RestBase     string   `json:"rest_base"`
	Supports     []string `json:"supports"`
	Taxonomies   []string `json:"taxonomies"`
	Count        int64    `json:"count"`
}

// TypeDetail is the schema of one post type.
type TypeDetail struct {
	TypeSummary
	Description string            `json:"description"`
	ShowInREST  bool              `json:"show_in_rest"`
	MenuIcon    string            `json:"menu_icon"`
	Builtin     bool              `json:"builtin"`
	Labels      map[string]string `json:"labels"`
	Counts      map[string]int64  `json:"counts"`
}

// PostQuery selects posts of one type.
type PostQuery struct {
	pagination.PageRequest
	Statuses []string
	Search   string
	OrderBy  string
	Desc     bool
}

// PostPage is one page of posts.
type PostPage struct {
	Posts []PostView `json:"posts"`
	Total int64      `json:"total"`
	Pages int        `json:"pages"`
	Page  int        `json:"page"`
}

// CreateCommand creates a post.
type CreateCommand struct {
	Title   string
	Content string
	Excerpt string
	Status  string
	Slug    string
	Parent  int64
	Author  int64
	Meta    map[string]any
}

// UpdateCommand changes the supplied fields of a post.
type UpdateCommand struct {
	Title   *string
	Content *string
	Excerpt *string
	Status  *string
	Slug    *string
	Meta    map[string]any
}

type System interface {
	Types(ctx context.Context) ([]TypeSummary, error)
	Type(ctx context.Context, name string) (*TypeDetail, error)
	Posts(ctx context.Context, postType string, q PostQuery) (*PostPage, error)
	Create(ctx context.Context, postType string, cmd CreateCommand) (*content.Post, error)
	Update(ctx context.Context, postType string, id int64, cmd UpdateCommand) error

	// Delete trashes the post unless force is set, in which case it is removed.
	Delete(ctx context.Context, postType string, id int64, force bool) (trashed bool, err error)
}
