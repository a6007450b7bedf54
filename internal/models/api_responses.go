// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package models

import "time"

// APIResponse is the standard envelope for all HTTP API responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   string `json:"timestamp"`
	QueryTimeMS int64  `json:"query_time_ms"`
}

// NewMetadata stamps response metadata from a request start time.
func NewMetadata(start time.Time) Metadata {
	return Metadata{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}
}

// APIError is a machine-readable error payload inside the envelope.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ArtistSearchResult is one candidate from the artist search endpoint.
// Disambiguation distinguishes same-named artists the way the
// MusicBrainz UI does.
type ArtistSearchResult struct {
	MBID           string `json:"mbid"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation,omitempty"`
	Score          int    `json:"score,omitempty"`
}

// ArtistEventsResult is the payload of the artist events endpoint.
type ArtistEventsResult struct {
	ArtistMBID   string           `json:"artist_mbid"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Events       []ArtistEventRow `json:"events"`
	EventCount   int              `json:"event_count"`
	VenueCount   int              `json:"venue_count"`
	SourceCounts map[string]int   `json:"source_counts"`
	Summary      string           `json:"summary"`
	Notes        []string         `json:"notes,omitempty"`
}

// RecommendationsResult is the payload of the recommendations endpoint.
type RecommendationsResult struct {
	ArtistMBID     string            `json:"artist_mbid"`
	Candidates     []RankedCandidate `json:"candidates"`
	VenuesSeen     int               `json:"venues_seen"`
	VenuesResolved int               `json:"venues_resolved"`
	Summary        string            `json:"summary"`
	Notes          []string          `json:"notes,omitempty"`
}
