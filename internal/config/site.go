package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvSiteURL         = "SITE_URL"
	EnvSiteVersion     = "SITE_VERSION"
	EnvSiteTablePrefix = "SITE_TABLE_PREFIX"
	EnvSiteDebug       = "SITE_DEBUG"
	EnvSiteLanguage    = "SITE_LANGUAGE"
	EnvSiteTimezone    = "SITE_TIMEZONE"
)

// SiteConfig describes the managed site.
type SiteConfig struct {
	// URL is the public site URL without trailing slash.
	URL string `toml:"url"`
	// Version is the installed core version reported until an update records a newer one.
	Version         string `toml:"version"`
	RequiredPHP     string `toml:"required_php"`
	RequiredMySQL   string `toml:"required_mysql"`
	TablePrefix     string `toml:"table_prefix"`
	Debug           bool   `toml:"debug"`
	DebugLog        bool   `toml:"debug_log"`
	DebugDisplay    bool   `toml:"debug_display"`
	ScriptDebug     bool   `toml:"script_debug"`
	Multisite       bool   `toml:"multisite"`
	Language        string `toml:"language"`
	Timezone        string `toml:"timezone"`
	MemoryLimit     string `toml:"memory_limit"`
	NotifyNewUsers  bool   `toml:"notify_new_users"`
	DisallowUpdates bool   `toml:"disallow_updates"`
}

// AdminURL returns the administration URL for the site.
func (c *SiteConfig) AdminURL() string {
	return c.URL + "/wp-admin/"
}

// Location returns the configured time zone, falling back to UTC.
func (c *SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *SiteConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *SiteConfig) Merge(overlay *SiteConfig) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.RequiredPHP != "" {
		c.RequiredPHP = overlay.RequiredPHP
	}
	if overlay.RequiredMySQL != "" {
		c.RequiredMySQL = overlay.RequiredMySQL
	}
	if overlay.TablePrefix != "" {
		c.TablePrefix = overlay.TablePrefix
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
	if overlay.MemoryLimit != "" {
		c.MemoryLimit = overlay.MemoryLimit
	}
	c.Debug = c.Debug || overlay.Debug
	c.DebugLog = c.DebugLog || overlay.DebugLog
	c.DebugDisplay = c.DebugDisplay || overlay.DebugDisplay
	c.ScriptDebug = c.ScriptDebug || overlay.ScriptDebug
	c.NotifyNewUsers = c.NotifyNewUsers || overlay.NotifyNewUsers
	c.DisallowUpdates = c.DisallowUpdates || overlay.DisallowUpdates
}

func (c *SiteConfig) loadDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	if c.Version == "" {
		c.Version = "6.6.2"
	}
	if c.RequiredPHP == "" {
		c.RequiredPHP = "7.2.24"
	}
	if c.RequiredMySQL == "" {
		c.RequiredMySQL = "5.5.5"
	}
	if c.TablePrefix == "" {
		c.TablePrefix = "wp_"
	}
	if c.Language == "" {
		c.Language = "en_US"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.MemoryLimit == "" {
		c.MemoryLimit = "256MB"
	}
}

func (c *SiteConfig) loadEnv() {
	if v := os.Getenv(EnvSiteURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvSiteVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvSiteTablePrefix); v != "" {
		c.TablePrefix = v
	}
	if v := os.Getenv(EnvSiteDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv(EnvSiteLanguage); v != "" {
		c.Language = v
	}
	if v := os.Getenv(EnvSiteTimezone); v != "" {
		c.Timezone = v
	}
}

func (c *SiteConfig) validate() error {
	c.URL = strings.TrimRight(c.URL, "/")
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url: %q", c.URL)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}
