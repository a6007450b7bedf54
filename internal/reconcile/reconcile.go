// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package reconcile merges the two sources' views of an artist's events
// into one deduplicated list.
//
// The setlist.fm record wins where both sources describe the same show:
// it carries the venue identity the co-occurrence walk runs on. The
// MusicBrainz record fills what setlist.fm lacks, most usefully the full
// performer list (a setlist names one artist, a MusicBrainz event names
// every billed act) and venue-level coordinates. Events seen by only one
// source pass through unchanged.
package reconcile

import (
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/venuemap"
)

// SamePredicate decides whether two records describe the same show.
// Injectable so the matching heuristic can be tightened without touching
// the merge.
type SamePredicate func(a, b *models.Event) bool

// SameEvent is the default predicate. A shared source id is definitive.
// Otherwise two records match when they fall on the same date and one
// record's artist set contains the other's: the single-artist setlist
// record is expected to name a subset of the full MusicBrainz bill.
//
// Known limitation: two same-day shows by the same artist in one city
// (an afternoon in-store and an evening concert, say) collapse into one
// record. Source ids, when both present, prevent this.
func SameEvent(a, b *models.Event) bool {
	if a.IDs.MBID != "" && a.IDs.MBID == b.IDs.MBID {
		return true
	}
	if a.IDs.SLID != "" && a.IDs.SLID == b.IDs.SLID {
		return true
	}
	if !a.Date.Equal(b.Date) {
		return false
	}
	return subset(a.ArtistIDSet(), b.ArtistIDSet()) || subset(b.ArtistIDSet(), a.ArtistIDSet())
}

func subset(small, big map[string]struct{}) bool {
	if len(small) == 0 || len(small) > len(big) {
		return false
	}
	for id := range small {
		if _, ok := big[id]; !ok {
			return false
		}
	}
	return true
}

// Merge reconciles MusicBrainz events (a) against setlist.fm events (b).
// Every b record survives; each a record either enriches its first
// matching b record or is appended. Cross-source venue pairings
// discovered during a merge are registered in the venue map. venues may
// be nil when no map is being maintained.
func Merge(a, b []models.Event, venues *venuemap.Map, same SamePredicate) []models.Event {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	out := make([]models.Event, len(b))
	copy(out, b)

	for i := range a {
		src := &a[i]
		merged := false
		for j := range out {
			if same(src, &out[j]) {
				mergeInto(&out[j], src, venues)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, *src)
		}
	}
	return out
}

// mergeInto enriches dst (setlist.fm origin) from src (MusicBrainz
// origin). Existing dst fields are never overwritten; the artist list is
// the one exception and is replaced only by a strictly longer one.
func mergeInto(dst, src *models.Event, venues *venuemap.Map) {
	if dst.IDs.MBID == "" {
		dst.IDs.MBID = src.IDs.MBID
	}
	if dst.Kind == "" {
		dst.Kind = src.Kind
	}
	if dst.URLs.MB == "" {
		dst.URLs.MB = src.URLs.MB
	}
	if len(src.Artists) > len(dst.Artists) {
		dst.Artists = src.Artists
	}

	mergeVenue(&dst.Venue, &src.Venue, venues)
	metrics.ReconcileMergedTotal.Inc()
}

func mergeVenue(dst, src *models.Venue, venues *venuemap.Map) {
	if src.IsEmpty() {
		return
	}
	if dst.IsEmpty() {
		*dst = *src
		return
	}

	if dst.IDs.MBID == "" {
		dst.IDs.MBID = src.IDs.MBID
	}
	if dst.Names.MB == "" {
		dst.Names.MB = src.Names.MB
	}
	if dst.Coords == nil {
		dst.Coords = src.Coords
	}
	if dst.City.Name == "" {
		dst.City = src.City
	}

	// The two sources just vouched for the same physical venue; the
	// canonical record goes in under both ids.
	if venues != nil && dst.IDs.MBID != "" && dst.IDs.SLID != "" {
		if _, ok := venues.Get(dst.IDs.MBID); !ok {
			venues.Register(*dst)
		}
	}
}
