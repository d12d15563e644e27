package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDirectoryBaseURL   = "DIRECTORY_BASE_URL"
	EnvDirectoryTimeout   = "DIRECTORY_TIMEOUT"
	EnvDirectoryUserAgent = "DIRECTORY_USER_AGENT"
)

// DirectoryConfig configures the WordPress.org directory client.
type DirectoryConfig struct {
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
}

func (c *DirectoryConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *DirectoryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *DirectoryConfig) Merge(overlay *DirectoryConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *DirectoryConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.wordpress.org"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.UserAgent == "" {
		c.UserAgent = "mcp-endpoints"
	}
}

func (c *DirectoryConfig) loadEnv() {
	if v := os.Getenv(EnvDirectoryBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvDirectoryTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvDirectoryUserAgent); v != "" {
		c.UserAgent = v
	}
}

func (c *DirectoryConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
