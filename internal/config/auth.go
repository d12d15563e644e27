package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvAuthSecret overrides the HS256 signing secret.
	EnvAuthSecret = "AUTH_SECRET"

	// EnvAuthIssuer overrides the token issuer.
	EnvAuthIssuer = "AUTH_ISSUER"

	// EnvAuthTokenTTL overrides the lifetime of issued tokens.
	EnvAuthTokenTTL = "AUTH_TOKEN_TTL"
)

// AuthConfig configures bearer token verification and issuance.
type AuthConfig struct {
	Secret   string `toml:"secret"`
	Issuer   string `toml:"issuer"`
	TokenTTL string `toml:"token_ttl"`
}

func (c *AuthConfig) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "mcp-endpoints"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "24h"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthTokenTTL); v != "" {
		c.TokenTTL = v
	}
}

func (c *AuthConfig) validate() error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}
