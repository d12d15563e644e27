package database_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/mcp-endpoints/pkg/database"
)

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_DB_PORT", "6543")
	t.Setenv("TEST_DB_AUTO_MIGRATE", "true")

	cfg := database.Config{Name: "wordpress", User: "wp"}
	err := cfg.Finalize(&database.Env{Port: "TEST_DB_PORT", AutoMigrate: "TEST_DB_AUTO_MIGRATE"})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 6543 || !cfg.AutoMigrate {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.ConnTimeoutDuration() != 5*time.Second {
		t.Errorf("ConnTimeoutDuration() = %v", cfg.ConnTimeoutDuration())
	}
	if want := "host=localhost port=6543 dbname=wordpress user=wp password= sslmode=disable"; cfg.Dsn() != want {
		t.Errorf("Dsn() = %q, want %q", cfg.Dsn(), want)
	}
}

func TestConfig_Finalize_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"missing name", database.Config{User: "wp"}},
		{"missing user", database.Config{Name: "wordpress"}},
		{"bad timeout", database.Config{Name: "wordpress", User: "wp", ConnTimeout: "soon"}},
		{"bad ssl mode", database.Config{Name: "wordpress", User: "wp", SSLMode: "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize() error = nil")
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := database.Config{Host: "db", Port: 5432, Name: "wordpress"}
	base.Merge(&database.Config{Port: 5433, SSLMode: "require"})

	if base.Host != "db" || base.Port != 5433 || base.SSLMode != "require" {
		t.Errorf("merged = %+v", base)
	}
}

func TestErrNotReady(t *testing.T) {
	if database.ErrNotReady.Error() != "database not ready" {
		t.Errorf("ErrNotReady = %q", database.ErrNotReady)
	}
}
