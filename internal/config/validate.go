// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateMusicBrainz,
		c.validateSetlist,
		c.validateVenues,
		c.validatePipeline,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if err := validateHTTPURL(c.MusicBrainz.BaseURL, "MUSICBRAINZ_URL"); err != nil {
		return err
	}
	if c.MusicBrainz.UserAgent == "" {
		return fmt.Errorf("MUSICBRAINZ_USER_AGENT is required (MusicBrainz rejects anonymous clients)")
	}
	if c.MusicBrainz.PageSize < 1 || c.MusicBrainz.PageSize > 100 {
		return fmt.Errorf("MUSICBRAINZ_PAGE_SIZE must be between 1 and 100, got %d", c.MusicBrainz.PageSize)
	}
	if c.MusicBrainz.RatePerSec <= 0 {
		return fmt.Errorf("MUSICBRAINZ_RATE_PER_SEC must be positive, got %g", c.MusicBrainz.RatePerSec)
	}
	return nil
}

func (c *Config) validateSetlist() error {
	if err := validateHTTPURL(c.Setlist.BaseURL, "SETLIST_URL"); err != nil {
		return err
	}
	if c.Setlist.APIKey == "" {
		return fmt.Errorf("SETLIST_API_KEY is required")
	}
	if c.Setlist.RetryAttempts < 1 {
		return fmt.Errorf("SETLIST_RETRY_ATTEMPTS must be at least 1, got %d", c.Setlist.RetryAttempts)
	}
	if c.Setlist.RetryDelay <= 0 {
		return fmt.Errorf("SETLIST_RETRY_DELAY must be positive, got %s", c.Setlist.RetryDelay)
	}
	if c.Setlist.RatePerSec <= 0 {
		return fmt.Errorf("SETLIST_RATE_PER_SEC must be positive, got %g", c.Setlist.RatePerSec)
	}
	if c.Setlist.ArtistPageLimit < 1 {
		return fmt.Errorf("SETLIST_ARTIST_PAGE_LIMIT must be at least 1, got %d", c.Setlist.ArtistPageLimit)
	}
	if c.Setlist.VenuePageLimit < 1 {
		return fmt.Errorf("SETLIST_VENUE_PAGE_LIMIT must be at least 1, got %d", c.Setlist.VenuePageLimit)
	}
	return nil
}

func (c *Config) validateVenues() error {
	switch c.Venues.Store {
	case "file", "badger":
	default:
		return fmt.Errorf("VENUE_MAP_STORE must be \"file\" or \"badger\", got %q", c.Venues.Store)
	}
	if c.Venues.Path == "" {
		return fmt.Errorf("VENUE_MAP_PATH is required")
	}
	if c.Venues.DistanceKm <= 0 {
		return fmt.Errorf("VENUE_DISTANCE_KM must be positive, got %g", c.Venues.DistanceKm)
	}
	if c.Venues.SimilarityMin < 0 || c.Venues.SimilarityMin > 100 {
		return fmt.Errorf("VENUE_SIMILARITY_MIN must be between 0 and 100, got %d", c.Venues.SimilarityMin)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if _, err := time.Parse("2006-01-02", c.Pipeline.StartDate); err != nil {
		return fmt.Errorf("PIPELINE_START_DATE must be YYYY-MM-DD: %w", err)
	}
	if c.Pipeline.FanoutWorkers < 1 {
		return fmt.Errorf("PIPELINE_FANOUT_WORKERS must be at least 1, got %d", c.Pipeline.FanoutWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	return nil
}

// StartDate returns the configured pipeline start date. Validate has
// already checked the format.
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.Pipeline.StartDate)
	return t
}

// validateHTTPURL checks that a URL parses and uses http or https.
func validateHTTPURL(raw, name string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
