package cpt

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

// Statuses a client may set on a post.
var writableStatuses = []string{"publish", "draft", "pending", "private", "future"}

// excludedFromAny are the statuses hidden by the "any" status filter.
var excludedFromAny = []string{"trash", "auto-draft"}

var orderFields = []string{"date", "title", "modified", "id", "name", "menu_order"}

// PostView is a post as returned to clients.
type PostView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Modified  time.Time `json:"modified"`
	Author    int64     `json:"author"`
	Excerpt   string    `json:"excerpt"`
	Parent    int64     `json:"parent"`
	MenuOrder int       `json:"menu_order"`
	Link      string    `json:"link"`
}

func toView(p content.Post, siteURL string) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Status:    p.Status,
		Type:      p.Type,
		Date:      p.Date,
		Modified:  p.Modified,
		Author:    p.Author,
		Excerpt:   p.Excerpt,
		Parent:    p.Parent,
		MenuOrder: p.MenuOrder,
		Link:      fmt.Sprintf("%s/?p=%d", siteURL, p.ID),
	}
}

func summarize(pt registry.PostType, taxonomies []string, count int64) TypeSummary {
	return TypeSummary{
		Name:         pt.Name,
		Label:        pt.Label,
		Singular:     pt.Singular,
		Public:       pt.Public,
		Hierarchical: pt.Hierarchical,
		HasArchive:   pt.HasArchive,
		RestBase:     pt.RestBase,
		Supports:     pt.Supports,
		Taxonomies:   taxonomies,
		Count:        count,
	}
}

// Labels derives the admin labels of a post type from its plural and singular names.
func Labels(pt registry.PostType) map[string]string {
	return map[string]string{
		"name":               pt.Label,
		"singular_name":      pt.Singular,
		"add_new":            "Add New",
		"add_new_item":       "Add New " + pt.Singular,
		"edit_item":          "Edit " + pt.Singular,
		"new_item":           "New " + pt.Singular,
		"view_item":          "View " + pt.Singular,
		"search_items":       "Search " + pt.Label,
		"not_found":          "No " + strings.ToLower(pt.Label) + " found.",
		"not_found_in_trash": "No " + strings.ToLower(pt.Label) + " found in Trash.",
		"all_items":          "All " + pt.Label,
	}
}

// ParseStatuses turns a comma-separated status filter into include and exclude lists.
// "any" includes every status except trash and auto-draft.
func ParseStatuses(raw string) (include, exclude []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "any" {
		return nil, excludedFromAny
	}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(include, s) {
			include = append(include, s)
		}
	}
	return include, nil
}

// ValidStatus reports whether status may be written by clients.
func ValidStatus(status string) bool {
	return slices.Contains(writableStatuses, status)
}

// ValidOrderBy reports whether field is an accepted sort field.
func ValidOrderBy(field string) bool {
	return slices.Contains(orderFields, field)
}
