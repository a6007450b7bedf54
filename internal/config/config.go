// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package config loads and validates application configuration with
// Koanf v2 layered sources: built-in defaults, an optional YAML file,
// and environment variables (highest priority).
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`
	Setlist     SetlistConfig     `koanf:"setlistfm"`
	Venues      VenuesConfig      `koanf:"venues"`
	Pipeline    PipelineConfig    `koanf:"pipeline"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// MusicBrainzConfig configures the graph-source client.
//
// MusicBrainz requires a meaningful User-Agent identifying the
// application and imposes a one-request-per-second etiquette limit,
// enforced client-side via RatePerSec.
type MusicBrainzConfig struct {
	BaseURL    string  `koanf:"base_url"`
	UserAgent  string  `koanf:"user_agent"`
	PageSize   int     `koanf:"page_size"`
	RatePerSec float64 `koanf:"rate_per_sec"`
}

// SetlistConfig configures the setlist-source client.
//
// RetryAttempts bounds the per-page retry budget for transiently
// incomplete responses; RetryDelay is the fixed inter-attempt wait.
// ArtistPageLimit and VenuePageLimit cap how many pages are pulled per
// seed artist and per fanned-out venue respectively.
type SetlistConfig struct {
	BaseURL         string        `koanf:"base_url"`
	APIKey          string        `koanf:"api_key"`
	RetryAttempts   int           `koanf:"retry_attempts"`
	RetryDelay      time.Duration `koanf:"retry_delay"`
	RatePerSec      float64       `koanf:"rate_per_sec"`
	ArtistPageLimit int           `koanf:"artist_page_limit"`
	VenuePageLimit  int           `koanf:"venue_page_limit"`
}

// VenuesConfig configures the durable venue identity map and matcher.
type VenuesConfig struct {
	// Store selects the backing store: "file" (JSON, default) or "badger".
	Store string `koanf:"store"`

	// Path is the JSON file path or badger directory, per Store.
	Path string `koanf:"path"`

	// DistanceKm is the maximum haversine distance between a seed
	// venue's coordinates and a candidate's city coordinates.
	DistanceKm float64 `koanf:"distance_km"`

	// SimilarityMin is the name-similarity score (0-100) a candidate
	// must exceed to be accepted.
	SimilarityMin int `koanf:"similarity_min"`
}

// PipelineConfig configures the orchestrator.
type PipelineConfig struct {
	// StartDate is the inclusive lower bound of the query date range,
	// in YYYY-MM-DD form. The upper bound is always "today".
	StartDate string `koanf:"start_date"`

	// FanoutWorkers bounds concurrent per-venue pulls. The setlist.fm
	// rate limiter provides the global budget; this only caps in-flight
	// goroutines.
	FanoutWorkers int `koanf:"fanout_workers"`
}

// SecurityConfig configures the HTTP middleware surface.
type SecurityConfig struct {
	CORSOrigins      []string      `koanf:"cors_origins"`
	RateLimitReqs    int           `koanf:"rate_limit_reqs"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	RateLimitDisable bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 120 * time.Second,
		},
		MusicBrainz: MusicBrainzConfig{
			BaseURL:    "https://musicbrainz.org/ws/2",
			UserAgent:  "stagemate/1.0 (https://github.com/stagemate/stagemate)",
			PageSize:   100,
			RatePerSec: 1,
		},
		Setlist: SetlistConfig{
			BaseURL:         "https://api.setlist.fm/rest/1.0",
			APIKey:          "",
			RetryAttempts:   10,
			RetryDelay:      time.Second,
			RatePerSec:      2,
			ArtistPageLimit: 1,
			VenuePageLimit:  1,
		},
		Venues: VenuesConfig{
			Store:         "file",
			Path:          "venue_mapping.json",
			DistanceKm:    25,
			SimilarityMin: 80,
		},
		Pipeline: PipelineConfig{
			StartDate:     "2015-01-01",
			FanoutWorkers: 4,
		},
		Security: SecurityConfig{
			CORSOrigins:      []string{"*"},
			RateLimitReqs:    60,
			RateLimitWindow:  time.Minute,
			RateLimitDisable: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
