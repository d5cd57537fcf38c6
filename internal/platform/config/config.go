// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the ImChat API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis), used for purge locks and readiness.
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Bearer token verification. The private key is optional; only tooling signs tokens.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// HistoryLookback is how far before their join time a member may read group history.
	HistoryLookback time.Duration `env:"HISTORY_LOOKBACK" envDefault:"24h"`

	// RetainForeignMessages keeps a purged user's messages in groups they did not own.
	RetainForeignMessages bool `env:"PURGE_RETAIN_FOREIGN_MESSAGES" envDefault:"false"`

	// PurgeLockTTL bounds how long a per-account purge lock may be held.
	PurgeLockTTL time.Duration `env:"PURGE_LOCK_TTL" envDefault:"30s"`

	// Tracing. "none" keeps the global no-op provider.
	TracesExporter   string  `env:"OTEL_TRACES_EXPORTER"  envDefault:"none"`
	TraceSampleRatio float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"1"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values that parse cleanly but make no sense at runtime.
func (c *Config) validate() error {
	if c.HistoryLookback < 0 {
		return fmt.Errorf("config: HISTORY_LOOKBACK must not be negative, got %s", c.HistoryLookback)
	}
	if c.PurgeLockTTL <= 0 {
		return fmt.Errorf("config: PURGE_LOCK_TTL must be positive, got %s", c.PurgeLockTTL)
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("config: OTEL_TRACE_SAMPLE_RATIO must be within [0, 1], got %g", c.TraceSampleRatio)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
