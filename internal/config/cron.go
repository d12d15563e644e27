package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvCronDisabled = "CRON_DISABLED"
	EnvCronTick     = "CRON_TICK"
)

// CronConfig controls the in-process scheduled event runner.
type CronConfig struct {
	Disabled bool   `toml:"disabled"`
	Tick     string `toml:"tick"`
}

func (c *CronConfig) TickDuration() time.Duration {
	d, _ := time.ParseDuration(c.Tick)
	return d
}

func (c *CronConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *CronConfig) Merge(overlay *CronConfig) {
	c.Disabled = c.Disabled || overlay.Disabled
	if overlay.Tick != "" {
		c.Tick = overlay.Tick
	}
}

func (c *CronConfig) loadDefaults() {
	if c.Tick == "" {
		c.Tick = "1m"
	}
}

func (c *CronConfig) loadEnv() {
	if v := os.Getenv(EnvCronDisabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Disabled = b
		}
	}
	if v := os.Getenv(EnvCronTick); v != "" {
		c.Tick = v
	}
}

func (c *CronConfig) validate() error {
	d, err := time.ParseDuration(c.Tick)
	if err != nil {
		return fmt.Errorf("invalid tick: %w", err)
	}
	if d < time.Second {
		return fmt.Errorf("tick must be at least 1s")
	}
	return nil
}
