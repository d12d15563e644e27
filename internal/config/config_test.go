package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/config"
)

const secret = "0123456789abcdef0123456789abcdef"

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestFinalize_Defaults(t *testing.T) {
	t.Setenv(config.EnvAuthSecret, secret)

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.API.BasePath != "/mcp/v1" {
		t.Errorf("API.BasePath = %q", cfg.API.BasePath)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Site.TablePrefix != "wp_" {
		t.Errorf("Site.TablePrefix = %q", cfg.Site.TablePrefix)
	}
	if cfg.Storage.BaseURL != "http://localhost:8080/wp-content" {
		t.Errorf("Storage.BaseURL = %q", cfg.Storage.BaseURL)
	}
	if cfg.Storage.MaxUploadSizeBytes() <= 0 {
		t.Error("Storage.MaxUploadSizeBytes() not resolved")
	}
	if cfg.Cron.TickDuration().Minutes() != 1 {
		t.Errorf("Cron.Tick = %q", cfg.Cron.Tick)
	}
}

func TestFinalize_RequiresSecret(t *testing.T) {
	t.Setenv(config.EnvAuthSecret, "")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() error = nil without auth secret")
	}
}

func TestFinalize_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad base path", func(c *config.Config) { c.API.BasePath = "mcp/v1/" }},
		{"bad site url", func(c *config.Config) { c.Site.URL = "not a url" }},
		{"bad timezone", func(c *config.Config) { c.Site.Timezone = "Mars/Olympus" }},
		{"bad port", func(c *config.Config) { c.Server.Port = 70000 }},
		{"bad cron tick", func(c *config.Config) { c.Cron.Tick = "10ms" }},
		{"bad shutdown", func(c *config.Config) { c.ShutdownTimeout = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvAuthSecret, secret)
			cfg := &config.Config{}
			tt.mutate(cfg)
			if err := cfg.Finalize(); err == nil {
				t.Error("Finalize() error = nil")
			}
		})
	}
}

func TestLoad_OverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	base := `
version = "1.2.3"

[site]
url = "https://example.com/"

[auth]
secret = "` + secret + `"

[registry]
[[registry.post_types]]
name = "book"
public = true
`
	overlay := `
[site]
debug = true

[server]
port = 9090
`
	if err := os.WriteFile(filepath.Join(dir, config.BaseConfigFile), []byte(base), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.test.toml"), []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(config.EnvServiceEnv, "test")
	t.Setenv(config.EnvSiteLanguage, "de_DE")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Version != "1.2.3" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.Site.URL != "https://example.com" || !cfg.Site.Debug {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if cfg.Site.Language != "de_DE" {
		t.Errorf("Site.Language = %q, want env override", cfg.Site.Language)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if len(cfg.Registry.PostTypes) != 1 || cfg.Registry.PostTypes[0].Label != "book" {
		t.Errorf("Registry.PostTypes = %+v", cfg.Registry.PostTypes)
	}
}
