// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinJWTSecretLength is the minimum required length for the JWT signing
// secret. HS256 needs at least 32 bytes of key material.
const MinJWTSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"ENTREHUB_DB_PATH" envDefault:"./data/entrehub.db"`
	JWTSecret  string `env:"ENTREHUB_JWT_SECRET,required"`
	ServerHost string `env:"ENTREHUB_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"ENTREHUB_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"ENTREHUB_ENV" envDefault:"development"`
	LogLevel   string `env:"ENTREHUB_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"ENTREHUB_LOG_FORMAT" envDefault:"text"` // text or json

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `env:"ENTREHUB_TOKEN_TTL" envDefault:"24h"`

	// CORSAllowedOrigins is a comma-separated list of origins allowed to
	// call the API from a browser.
	CORSAllowedOrigins []string `env:"ENTREHUB_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Seeding configuration
	DoSeed        bool   `env:"ENTREHUB_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"ENTREHUB_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"ENTREHUB_ADMIN_PASSWORD" envDefault:"admin123"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("ENTREHUB_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("ENTREHUB_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("ENTREHUB_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
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
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`") {
		charTypes++
	}
	return charTypes >= 3
}
