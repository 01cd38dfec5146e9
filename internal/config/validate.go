package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks values that cleanenv cannot express with tags.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage: sqlite path is empty")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage: STORAGE_POSTGRES_DSN is required for postgres")
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage: STORAGE_REDIS_URL is required for redis")
		}
	case "badger":
		if c.Storage.BadgerPath == "" {
			return fmt.Errorf("storage: badger path is empty")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage.Backend)
	}

	switch strings.ToLower(c.Auth.Provider) {
	case "mock":
	case "google":
		if c.Auth.GoogleClientID == "" || c.Auth.GoogleClientSecret == "" {
			return fmt.Errorf("auth: google provider needs AUTH_GOOGLE_CLIENT_ID and AUTH_GOOGLE_CLIENT_SECRET")
		}
	default:
		return fmt.Errorf("auth: unknown provider %q", c.Auth.Provider)
	}
	if len(c.Auth.TokenSecret) < 16 {
		return fmt.Errorf("auth: token secret must be at least 16 characters (got %d)", len(c.Auth.TokenSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth: token ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}

	if c.Dictionary.Timeout <= 0 {
		return fmt.Errorf("dictionary: timeout must be > 0 (got %s)", c.Dictionary.Timeout)
	}

	if _, err := c.Digest.Clock(); err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}

// Clock parses Time as a 24h HH:MM wall clock time.
func (d DigestConfig) Clock() (time.Time, error) {
	t, err := time.Parse("15:04", d.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q is not HH:MM", d.Time)
	}
	return t, nil
}
