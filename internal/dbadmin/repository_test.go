package dbadmin_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"maps"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/dbadmin"
	"github.com/JaimeStill/mcp-endpoints/internal/dbtest"
)

func newRepo(t *testing.T) (*sql.DB, dbadmin.System) {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.Exec(t, db, `
		INSERT INTO wp_posts (id, post_title, post_content, guid) VALUES
			(101, 'Moving', 'See http://old.example and http://old.example/about', 'http://old.example/?p=101'),
			(102, 'Deals', '100% off today', ''),
			(103, 'Stock', '1000 items in stock', ''),
			(104, 'Keys', 'use snake_case names', ''),
			(105, 'Other', 'use snakeXcase names', '')`,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, dbadmin.New(db, "wp_", logger)
}

func content(t *testing.T, db *sql.DB, id int64) (string, string) {
	t.Helper()
	var body, guid string
	if err := db.QueryRow("SELECT post_content, guid FROM wp_posts WHERE id = $1", id).Scan(&body, &guid); err != nil {
		t.Fatalf("read post %d: %v", id, err)
	}
	return body, guid
}

func TestRepository_SearchReplace(t *testing.T) {
	db, sys := newRepo(t)
	ctx := context.Background()
	req := dbadmin.SearchReplace{Search: "http://old.example", Replace: "https://new.example", DryRun: true}

	dry, err := sys.SearchReplace(ctx, req)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	want := map[string]int64{"wp_posts": 2}
	if dry.TotalChanges != 2 || !maps.Equal(dry.Tables, want) {
		t.Errorf("dry run = %d %v, want 2 %v", dry.TotalChanges, dry.Tables, want)
	}
	if body, _ := content(t, db, 101); body != "See http://old.example and http://old.example/about" {
		t.Errorf("dry run changed content: %q", body)
	}

	req.DryRun = false
	res, err := sys.SearchReplace(ctx, req)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if res.TotalChanges != 2 || !maps.Equal(res.Tables, want) {
		t.Errorf("replace = %d %v, want 2 %v", res.TotalChanges, res.Tables, want)
	}
	body, guid := content(t, db, 101)
	if body != "See https://new.example and https://new.example/about" {
		t.Errorf("content = %q", body)
	}
	if guid != "https://new.example/?p=101" {
		t.Errorf("guid = %q", guid)
	}

	req.DryRun = true
	again, err := sys.SearchReplace(ctx, req)
	if err != nil {
		t.Fatalf("second dry run: %v", err)
	}
	if again.TotalChanges != 0 || len(again.Tables) != 0 {
		t.Errorf("second dry run = %d %v, want nothing", again.TotalChanges, again.Tables)
	}
}

func TestRepository_SearchReplaceLiteralWildcards(t *testing.T) {
	db, sys := newRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		search  string
		replace string
		tables  []string
		want    map[string]int64
		post    int64
		body    string
	}{
		{
			name:    "percent",
			search:  "100%",
			replace: "half",
			tables:  []string{"wp_posts"},
			want:    map[string]int64{"wp_posts": 1},
			post:    102,
			body:    "half off today",
		},
		{
			name:    "underscore",
			search:  "snake_case",
			replace: "kebab-case",
			tables:  []string{"wp_posts"},
			want:    map[string]int64{"wp_posts": 1},
			post:    104,
			body:    "use kebab-case names",
		},
		{
			name:    "option value",
			search:  "%postname%",
			replace: "%post_id%",
			tables:  []string{"wp_options"},
			want:    map[string]int64{"wp_options": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sys.SearchReplace(ctx, dbadmin.SearchReplace{
				Search: tt.search, Replace: tt.replace, Tables: tt.tables,
			})
			if err != nil {
				t.Fatalf("SearchReplace: %v", err)
			}
			if !maps.Equal(res.Tables, tt.want) {
				t.Errorf("tables = %v, want %v", res.Tables, tt.want)
			}
			if tt.post != 0 {
				if body, _ := content(t, db, tt.post); body != tt.body {
					t.Errorf("content = %q, want %q", body, tt.body)
				}
			}
		})
	}

	for id, want := range map[int64]string{103: "1000 items in stock", 105: "use snakeXcase names"} {
		if body, _ := content(t, db, id); body != want {
			t.Errorf("post %d = %q, want untouched", id, body)
		}
	}

	var permalink string
	if err := db.QueryRow("SELECT option_value FROM wp_options WHERE option_name = 'permalink_structure'").Scan(&permalink); err != nil {
		t.Fatalf("read option: %v", err)
	}
	if permalink != `"/%post_id%/"` {
		t.Errorf("permalink_structure = %s", permalink)
	}
}

func TestRepository_SearchReplaceRejects(t *testing.T) {
	_, sys := newRepo(t)
	ctx := context.Background()

	if _, err := sys.SearchReplace(ctx, dbadmin.SearchReplace{Search: ""}); !errors.Is(err, dbadmin.ErrEmptySearch) {
		t.Errorf("empty search err = %v", err)
	}
	if _, err := sys.SearchReplace(ctx, dbadmin.SearchReplace{Search: "x", Tables: []string{"pg_class"}}); !errors.Is(err, dbadmin.ErrInvalidTable) {
		t.Errorf("unknown table err = %v", err)
	}
}

func TestRepository_CleanRevisions(t *testing.T) {
	db, sys := newRepo(t)
	dbtest.Exec(t, db, `
		INSERT INTO wp_posts (post_type, post_status, post_parent, post_date) VALUES
			('revision', 'inherit', 101, NOW() - INTERVAL '3 days'),
			('revision', 'inherit', 101, NOW() - INTERVAL '2 days'),
			('revision', 'inherit', 101, NOW() - INTERVAL '1 day'),
			('revision', 'inherit', 102, NOW() - INTERVAL '1 day')`,
	)

	deleted, err := sys.CleanRevisions(context.Background(), 1)
	if err != nil {
		t.Fatalf("CleanRevisions: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	var left int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM wp_posts
		WHERE post_type = 'revision' AND post_parent = 101 AND post_date > NOW() - INTERVAL '36 hours'`,
	).Scan(&left); err != nil {
		t.Fatalf("count revisions: %v", err)
	}
	if left != 1 {
		t.Errorf("newest revision of 101 kept = %d, want 1", left)
	}
}
