// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// withAPIKey sets the one env var without which Load cannot validate.
func withAPIKey(t *testing.T) {
	t.Helper()
	t.Setenv("SETLIST_API_KEY", "test-key")
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.MusicBrainz.PageSize != 100 {
		t.Errorf("default page size = %d, want 100", cfg.MusicBrainz.PageSize)
	}
	if cfg.Setlist.RetryAttempts != 10 {
		t.Errorf("default retry attempts = %d, want 10", cfg.Setlist.RetryAttempts)
	}
	if cfg.Setlist.RetryDelay != time.Second {
		t.Errorf("default retry delay = %s, want 1s", cfg.Setlist.RetryDelay)
	}
	if cfg.Venues.DistanceKm != 25 {
		t.Errorf("default distance = %g, want 25", cfg.Venues.DistanceKm)
	}
	if cfg.Venues.SimilarityMin != 80 {
		t.Errorf("default similarity = %d, want 80", cfg.Venues.SimilarityMin)
	}
	if cfg.Pipeline.StartDate != "2015-01-01" {
		t.Errorf("default start date = %q", cfg.Pipeline.StartDate)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	withAPIKey(t)
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SETLIST_RETRY_ATTEMPTS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Setlist.RetryAttempts != 3 {
		t.Errorf("retry attempts = %d, want 3", cfg.Setlist.RetryAttempts)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("cors origins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	withAPIKey(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 3030\nvenues:\n  distance_km: 10\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 3030 {
		t.Errorf("port = %d, want 3030 from file", cfg.Server.Port)
	}
	if cfg.Venues.DistanceKm != 10 {
		t.Errorf("distance = %g, want 10 from file", cfg.Venues.DistanceKm)
	}
	// Untouched values keep defaults.
	if cfg.MusicBrainz.PageSize != 100 {
		t.Errorf("page size = %d, want default 100", cfg.MusicBrainz.PageSize)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	withAPIKey(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 3030\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "4040")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 4040 {
		t.Errorf("port = %d, env must beat file", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.Setlist.APIKey = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad store", func(c *Config) { c.Venues.Store = "redis" }},
		{"bad similarity", func(c *Config) { c.Venues.SimilarityMin = 101 }},
		{"bad start date", func(c *Config) { c.Pipeline.StartDate = "01-01-2015" }},
		{"bad scheme", func(c *Config) { c.MusicBrainz.BaseURL = "ftp://musicbrainz.org" }},
		{"empty user agent", func(c *Config) { c.MusicBrainz.UserAgent = "" }},
		{"zero retry budget", func(c *Config) { c.Setlist.RetryAttempts = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"zero workers", func(c *Config) { c.Pipeline.FanoutWorkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Setlist.APIKey = "k"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateAcceptsDefaultsWithKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Setlist.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults with API key should validate: %v", err)
	}
}

func TestStartDate(t *testing.T) {
	cfg := defaultConfig()
	want := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := cfg.StartDate(); !got.Equal(want) {
		t.Errorf("StartDate() = %s, want %s", got, want)
	}
}

func TestEnvTransformSkipsUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("unmapped env var should be skipped, got %q", got)
	}
	if got := envTransformFunc("SETLIST_API_KEY"); got != "setlistfm.api_key" {
		t.Errorf("SETLIST_API_KEY -> %q", got)
	}
}
