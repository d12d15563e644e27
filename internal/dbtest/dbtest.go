// Package dbtest provisions migrated PostgreSQL databases for repository tests.
//
// Tests that need a database call Open. When DATABASE_URL is unset the test
// is skipped, so the suite still runs without a server.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/mcp-endpoints/internal/migrations"
	"github.com/JaimeStill/mcp-endpoints/pkg/database"
)

// EnvURL names the connection string of a server the tests may create databases on.
const EnvURL = "DATABASE_URL"

// Open creates a uniquely named database on the DATABASE_URL server, applies
// the site migrations and returns a pool to it. The database is dropped when
// the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}

	name := "mcp_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	ident := pgx.Identifier{name}.Sanitize()
	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+ident); err != nil {
		admin.Close()
		t.Fatalf("create database: %v", err)
	}

	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse %s: %v", EnvURL, err)
	}
	cfg.Database = name
	db := stdlib.OpenDB(*cfg)

	t.Cleanup(func() {
		db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+ident+" WITH (FORCE)"); err != nil {
			t.Logf("drop database %s: %v", name, err)
		}
		admin.Close()
	})

	if _, _, err := database.Migrate(db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Exec runs statements against db, failing the test on the first error.
func Exec(t *testing.T, db *sql.DB, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}
