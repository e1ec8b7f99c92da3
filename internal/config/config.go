// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package config loads the application configuration with koanf v2.
// Three layers, highest priority last: struct defaults, an optional
// YAML file, environment variables prefixed SCENTMATCH_.
package config

import (
	"fmt"
	"time"

	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/matcher/rerank"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"/etc/scentmatch/config.yaml",
}

// Config is the full application configuration tree.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Logging LoggingConfig  `koanf:"logging"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Engine  matcher.Config `koanf:"engine"`
	Rerank  rerank.Config  `koanf:"rerank"`
	API     APIConfig      `koanf:"api"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds the log settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds the catalog store settings.
type CatalogConfig struct {
	// Path is the Badger database directory.
	Path string `koanf:"path"`

	// ImportFile is an optional JSON catalog imported at startup.
	ImportFile string `koanf:"import_file"`
}

// APIConfig holds API middleware settings.
type APIConfig struct {
	// RateLimitRequests per RateLimitWindow per client IP; zero disables
	// rate limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// CORSAllowedOrigins lists allowed origins; "*" allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// AdminKey guards the catalog mutation endpoints via the
	// X-Admin-Key header. Empty disables the admin API entirely.
	AdminKey string `koanf:"admin_key"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path: "data/catalog",
		},
		Engine: *matcher.DefaultConfig(),
		Rerank: rerank.DefaultConfig(),
		API: APIConfig{
			RateLimitRequests:  120,
			RateLimitWindow:    time.Minute,
			CORSAllowedOrigins: []string{"*"},
		},
	}
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Rerank.Enabled && c.Rerank.URL == "" {
		return fmt.Errorf("rerank.url is required when rerank.enabled is set")
	}
	if c.API.RateLimitRequests < 0 {
		return fmt.Errorf("api.rate_limit_requests must not be negative")
	}
	return nil
}
