package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be > 0 (got %d)", c.Server.RateLimit)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Database.StatementTimeout < 0 {
		return fmt.Errorf("database.statement_timeout must be >= 0 (got %s)", c.Database.StatementTimeout)
	}

	if err := c.Feed.validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if c.NATS.Enabled() {
		if _, err := url.Parse(c.NATS.URL); err != nil {
			return fmt.Errorf("nats.url: %w", err)
		}
	}

	return nil
}

func (f *FeedConfig) validate() error {
	if f.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", f.DefaultLimit)
	}
	if f.MaxLimit < f.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", f.MaxLimit, f.DefaultLimit)
	}
	if f.ActivityRetentionDays <= 0 {
		return fmt.Errorf("activity_retention_days must be > 0 (got %d)", f.ActivityRetentionDays)
	}
	return nil
}
