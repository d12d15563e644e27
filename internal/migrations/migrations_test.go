package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/migrations"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestFS_SchemaCreatesSiteTables(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, "000001_site_schema.up.sql")
	if err != nil {
		t.Fatal(err)
	}

	for _, table := range []string{"wp_options", "wp_users", "wp_usermeta", "wp_posts", "wp_postmeta", "wp_terms", "wp_term_taxonomy", "wp_term_relationships", "wp_comments"} {
		if !strings.Contains(string(data), "CREATE TABLE "+table+" (") {
			t.Errorf("schema missing table %s", table)
		}
	}
}
