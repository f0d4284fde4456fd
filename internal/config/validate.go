package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Lease.Period < time.Second {
		return fmt.Errorf("lease.period must be at least 1s (got %s)", c.Lease.Period)
	}

	if err := c.Upload.validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (u *UploadConfig) validate() error {
	if strings.TrimSpace(u.Path) == "" {
		return fmt.Errorf("path is required")
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	if u.MaxBytes <= 0 {
		return fmt.Errorf("max_bytes must be > 0 (got %d)", u.MaxBytes)
	}
	if u.OrphanAge < time.Minute {
		return fmt.Errorf("orphan_age must be at least 1m (got %s)", u.OrphanAge)
	}
	if u.RatePerMinute < 0 {
		return fmt.Errorf("rate_per_minute must be >= 0 (got %d)", u.RatePerMinute)
	}
	return nil
}
