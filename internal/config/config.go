// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Accepted values for the enumerated settings.
var (
	sessionStores = []string{"memory", "sqlite", "redis"}
	authModes     = []string{"simulated", "directory"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret string `env:"PORTAL_SESSION_SECRET,required"`
	Env           string `env:"PORTAL_ENV" envDefault:"development"`
	ServerHost    string `env:"PORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PORTAL_SERVER_PORT" envDefault:"8080"`
	TrustProxy    bool   `env:"PORTAL_TRUST_PROXY" envDefault:"false"`
	LogLevel      string `env:"PORTAL_LOG_LEVEL" envDefault:"info"`
	DBPath        string `env:"PORTAL_DB_PATH" envDefault:"./data/portal.db"`

	// Session storage
	SessionStore    string        `env:"PORTAL_SESSION_STORE" envDefault:"sqlite"`
	SessionLifetime time.Duration `env:"PORTAL_SESSION_LIFETIME" envDefault:"24h"`
	RedisURL        string        `env:"PORTAL_REDIS_URL"`

	// Authentication
	AuthMode     string        `env:"PORTAL_AUTH_MODE" envDefault:"simulated"`
	AuthDelay    time.Duration `env:"PORTAL_AUTH_DELAY" envDefault:"1s"`
	SeedEmail    string        `env:"PORTAL_SEED_EMAIL"`
	SeedPassword string        `env:"PORTAL_SEED_PASSWORD"`

	EventRetention time.Duration `env:"PORTAL_EVENT_RETENTION" envDefault:"720h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UsesDirectory returns true if logins are checked against the users table.
func (c Config) UsesDirectory() bool {
	return c.AuthMode == "directory"
}

// SeedEnabled returns true if a directory account should be seeded at startup.
func (c Config) SeedEnabled() bool {
	return c.SeedEmail != "" && c.SeedPassword != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The CSRF protection derives its key from it.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PORTAL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("PORTAL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		return fmt.Errorf("PORTAL_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	c.SessionStore = strings.ToLower(c.SessionStore)
	c.AuthMode = strings.ToLower(c.AuthMode)
	c.LogLevel = strings.ToLower(c.LogLevel)

	if err := oneOf("PORTAL_SESSION_STORE", c.SessionStore, sessionStores); err != nil {
		return err
	}
	if err := oneOf("PORTAL_AUTH_MODE", c.AuthMode, authModes); err != nil {
		return err
	}
	if err := oneOf("PORTAL_LOG_LEVEL", c.LogLevel, logLevels); err != nil {
		return err
	}
	if c.SessionStore == "redis" && c.RedisURL == "" {
		return fmt.Errorf("PORTAL_REDIS_URL is required when PORTAL_SESSION_STORE=redis")
	}
	if c.AuthDelay < 0 {
		return fmt.Errorf("PORTAL_AUTH_DELAY must not be negative, got %s", c.AuthDelay)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("PORTAL_SESSION_LIFETIME must be positive, got %s", c.SessionLifetime)
	}
	if (c.SeedEmail == "") != (c.SeedPassword == "") {
		return fmt.Errorf("PORTAL_SEED_EMAIL and PORTAL_SEED_PASSWORD must be set together")
	}
	return nil
}

func oneOf(name, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
