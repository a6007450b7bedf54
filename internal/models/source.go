// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package models

import "fmt"

// Source names an external data source.
type Source string

const (
	// SourceMusicBrainz is the graph-style metadata service.
	SourceMusicBrainz Source = "musicbrainz"

	// SourceSetlist is the crowd-sourced setlist service.
	SourceSetlist Source = "setlistfm"
)

// EntityKind names the kind of seed entity a fetch is scoped to.
type EntityKind string

const (
	// EntityArtist scopes a fetch to an artist's events.
	EntityArtist EntityKind = "artist"

	// EntityVenue scopes a fetch to a venue's events.
	EntityVenue EntityKind = "venue"
)

// SourceError wraps a failure scoped to one source so callers can tell
// which upstream broke a pipeline call.
type SourceError struct {
	Source Source
	Err    error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *SourceError) Unwrap() error {
	return e.Err
}
