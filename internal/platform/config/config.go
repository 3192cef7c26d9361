// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through their
constructors. No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Stockify API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Session token signing
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	BcryptCost   int           `env:"BCRYPT_COST"    envDefault:"12"`

	// SessionRevocationCheck makes token verification consult the Redis revocation list.
	SessionRevocationCheck bool `env:"SESSION_REVOCATION_CHECK" envDefault:"false"`

	// PermissionCacheTTL bounds how long a user's permission grid is served from memory.
	PermissionCacheTTL time.Duration `env:"PERMISSION_CACHE_TTL" envDefault:"30s"`

	// Edge guard for the dashboard area
	GuardPrefixes  []string `env:"GUARD_PREFIXES"   envDefault:"/dashboard" envSeparator:","`
	GuardEntryPath string   `env:"GUARD_ENTRY_PATH" envDefault:"/"`
	DashboardDir   string   `env:"DASHBOARD_DIR"    envDefault:"./web/dashboard"`

	// ResetURLBase is the dashboard page that completes a password reset.
	ResetURLBase string `env:"RESET_URL_BASE" envDefault:"http://localhost:3000/reset-password"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"stockify.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
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

// validate enforces the cross-field rules env tags cannot express.
func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET must not be blank")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	for _, prefix := range c.GuardPrefixes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("config: GUARD_PREFIXES entry %q must start with '/'", prefix)
		}
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

// OriginSuffix is the host suffix accepted by CORS outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
