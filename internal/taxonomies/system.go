// Package taxonomies exposes registered taxonomies, term CRUD and
// assignment of terms to posts.
package taxonomies

import (
	"context"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
)

// Summary is a taxonomy with its term count.
type Summary struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Singular     string   `json:"singular"`
	Description  string   `json:"description"`
	Public       bool     `json:"public"`
	Hierarchical bool     `json:"hierarchical"`
	RestBase     string   `json:"rest_base"`
	ObjectTypes  []string `json:"object_types"`
	TermCount    int64    `json:"term_count"`
}

// TermFilter selects terms of one taxonomy.
type TermFilter struct {
	HideEmpty bool
	Parent    *int64
	Search    string
}

// TermInput carries the writable fields of a term. Nil fields are left unchanged on update.
type TermInput struct {
	Name        *string
	Slug        *string
	Description *string
	Parent      *int64
}

// Assignment attaches terms to a post. Terms are IDs, slugs or names.
type Assignment struct {
	PostID   int64
	Taxonomy string
	Terms    []any
	Append   bool
}

type System interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, taxonomy string) (*Summary, error)
	Terms(ctx context.Context, taxonomy string, f TermFilter) ([]content.Term, error)
	CreateTerm(ctx context.Context, taxonomy string, in TermInput) (*content.Term, error)
	UpdateTerm(ctx context.Context, taxonomy string, id int64, in TermInput) (*content.Term, error)
	DeleteTerm(ctx context.Context, taxonomy string, id int64) error

	// Assign returns the term_taxonomy IDs attached to the post afterwards.
	Assign(ctx context.Context, a Assignment) ([]int64, error)
}
