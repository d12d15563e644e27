// Package content holds the post, meta and term primitives shared by the
// content-facing routes. Functions take a repository.Querier so callers can
// compose them inside a transaction.
package content

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrPostNotFound = handlers.NewError("not_found", "Post not found", http.StatusNotFound)
	ErrTermNotFound = handlers.NewError("term_not_found", "Term not found.", http.StatusNotFound)
	ErrTermExists   = handlers.NewError("term_exists", "A term with the name provided already exists in this taxonomy.", http.StatusBadRequest)
)

var nonSlug = regexp.MustCompile(`[^a-z0-9_]+`)

// Slugify lowercases s and collapses every run of other characters into a single hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
