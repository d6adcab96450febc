// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Database: "postgres" or "sqlite"
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	// Valkey (Redis-compatible cache and session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// API tokens. An empty TokenKey means a random per-process key.
	TokenKey string
	TokenTTL time.Duration

	CORSOrigins []string

	// S3-compatible post image storage, disabled when S3Endpoint is empty.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Full-text search. An empty SearchPath keeps the index in memory.
	SearchEnabled bool
	SearchPath    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed, or insecure in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		DBDriver:   envOrDefault("DB_DRIVER", "postgres"),
		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "folio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "folio"),
		SQLitePath: envOrDefault("SQLITE_PATH", "folio.db"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		TokenKey:    os.Getenv("TOKEN_KEY"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "folio-images"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SearchPath: os.Getenv("SEARCH_PATH"),
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration, got %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	cfg.SearchEnabled, err = strconv.ParseBool(envOrDefault("SEARCH_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_ENABLED must be a boolean, got %q", os.Getenv("SEARCH_ENABLED"))
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	if cfg.TokenKey != "" {
		if key, err := hex.DecodeString(cfg.TokenKey); err != nil || len(key) != 32 {
			return nil, fmt.Errorf("TOKEN_KEY must be 64 hex characters")
		}
	}

	if cfg.Env == "production" {
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.TokenKey == "" {
			return nil, fmt.Errorf("TOKEN_KEY must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver: a PostgreSQL
// URL, or the SQLite file path.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured. Without one
// the server runs without caches and session-backed pages.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return net.JoinHostPort(c.ValkeyHost, c.ValkeyPort)
}

// S3Enabled reports whether post image storage is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
