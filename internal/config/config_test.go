// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }},
		{"negative penalty", func(c *Config) { c.Engine.Penalties.Oud = -0.5 }},
		{"rerank enabled without url", func(c *Config) { c.Rerank.Enabled = true; c.Rerank.URL = "" }},
		{"negative rate limit", func(c *Config) { c.API.RateLimitRequests = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SCENTMATCH_SERVER_PORT", "server.port"},
		{"SCENTMATCH_LOGGING_LEVEL", "logging.level"},
		{"SCENTMATCH_RERANK_API_KEY", "rerank.api_key"},
		{"SCENTMATCH_CATALOG_IMPORT_FILE", "catalog.import_file"},
		{"SCENTMATCH_API_ADMIN_KEY", "api.admin_key"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
logging:
  level: debug
engine:
  limits:
    default: 5
`
	if err := os.WriteFile(configPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("SCENTMATCH_SERVER_PORT", "9100")
	t.Setenv("SCENTMATCH_API_ADMIN_KEY", "sekrit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Environment beats file beats defaults.
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want file value debug", cfg.Logging.Level)
	}
	if cfg.Engine.Limits.Default != 5 {
		t.Errorf("engine default limit = %d, want 5", cfg.Engine.Limits.Default)
	}
	if cfg.API.AdminKey != "sekrit" {
		t.Errorf("admin key = %q, want env value", cfg.API.AdminKey)
	}
	// Untouched values keep defaults.
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want default", cfg.Server.ShutdownTimeout)
	}
}
