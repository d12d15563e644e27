package query_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/pkg/query"
)

func postsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "wp_posts", "p").
		Project("id", "ID").
		Project("post_title", "Title").
		Project("post_type", "Type").
		Project("post_status", "Status")
}

func TestProjectionMap(t *testing.T) {
	pm := postsProjection()

	if pm.Table() != "public.wp_posts p" {
		t.Errorf("Table() = %q", pm.Table())
	}
	if pm.Columns() != "p.id, p.post_title, p.post_type, p.post_status" {
		t.Errorf("Columns() = %q", pm.Columns())
	}
	if pm.Column("Title") != "p.post_title" {
		t.Errorf("Column(Title) = %q", pm.Column("Title"))
	}
	if pm.Column("Unknown") != "Unknown" {
		t.Errorf("Column(Unknown) = %q", pm.Column("Unknown"))
	}
	if !pm.Has("Type") || pm.Has("Unknown") {
		t.Error("Has() mismatch")
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	search := "hello"
	b := query.NewBuilder(postsProjection(), "ID").
		WhereEquals("Type", "page").
		WhereNotIn("Status", []any{"trash", "auto-draft"}).
		WhereSearch(&search, "Title").
		OrderBy("Title", true)

	sql, args := b.BuildPage(2, 10)

	wants := []string{
		"SELECT p.id, p.post_title, p.post_type, p.post_status FROM public.wp_posts p",
		"WHERE p.post_type = $1 AND p.post_status NOT IN ($2, $3) AND (p.post_title ILIKE $4)",
		"ORDER BY p.post_title DESC",
		"LIMIT 10 OFFSET 10",
	}
	for _, want := range wants {
		if !strings.Contains(sql, want) {
			t.Errorf("sql missing %q\n got %q", want, sql)
		}
	}
	if len(args) != 4 || args[3] != "%hello%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilder_IgnoresEmptyConditions(t *testing.T) {
	b := query.NewBuilder(postsProjection(), "ID").
		WhereEquals("Type", nil).
		WhereContains("Title", nil).
		WhereIn("Status", nil).
		WherePrefix("Title", "")

	sql, args := b.BuildCount()
	if sql != "SELECT COUNT(*) FROM public.wp_posts p" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestBuilder_WherePrefixEscapes(t *testing.T) {
	sql, args := query.NewBuilder(postsProjection(), "Title").
		WherePrefix("Title", "_transient_").
		Build()

	if !strings.Contains(sql, "p.post_title LIKE $1") {
		t.Errorf("sql = %q", sql)
	}
	if args[0] != `\_transient\_%` {
		t.Errorf("arg = %q", args[0])
	}
	if !strings.HasSuffix(sql, "ORDER BY p.post_title ASC") {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuilder_WhereRaw(t *testing.T) {
	sql, args := query.NewBuilder(postsProjection(), "ID").
		WhereEquals("Type", "post").
		WhereRaw("p.post_parent = $%d OR p.post_parent = $%d", 0, 7).
		BuildCount()

	if !strings.Contains(sql, "p.post_type = $1 AND p.post_parent = $2 OR p.post_parent = $3") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 3 {
		t.Errorf("args = %v", args)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := query.EscapeLike(`50%_a\b`); got != `50\%\_a\\b` {
		t.Errorf("EscapeLike() = %q", got)
	}
}
