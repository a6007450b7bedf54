// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package setlistfm

import "errors"

var (
	// ErrRetriesExhausted is returned when a page fetch stayed
	// incomplete for the whole retry budget. It is fatal for this
	// source only: the orchestrator degrades setlist.fm to an empty
	// result and continues with MusicBrainz data.
	ErrRetriesExhausted = errors.New("setlistfm: retry budget exhausted")

	// errNotFound marks a 404 from the API. It never escapes the
	// client: a missing entity is an empty result, not an error.
	errNotFound = errors.New("setlistfm: not found")
)
