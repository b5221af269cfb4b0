// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (upstream client, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the DICRI portal gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// UpstreamBaseURL is the base URL of the DICRI backend REST API.
	UpstreamBaseURL string `env:"UPSTREAM_BASE_URL,required"`

	// Key-Value Session Store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Relational Database (PostgreSQL) for the local audit trail
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// SessionTTL bounds session lifetime when the token has no expiry claim.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// VerifyMaxAge is how long a successful upstream token verification is
	// trusted before /auth/verify performs another round trip.
	VerifyMaxAge time.Duration `env:"VERIFY_MAX_AGE" envDefault:"5m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedExtraOrigins returns the additional CORS origins configured via
// EXTRA_ORIGINS (comma-separated), beyond the institutional domain.
func (c *Config) AllowedExtraOrigins() []string {
	if strings.TrimSpace(c.ExtraOrigins) == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
