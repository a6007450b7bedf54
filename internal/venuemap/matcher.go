// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package venuemap

import (
	"context"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/setlistfm"
)

// Matcher resolves a MusicBrainz venue to its setlist.fm counterpart by
// searching setlist.fm venues by name and scoring the candidates.
//
// A candidate qualifies when its city coordinates lie within DistanceKm
// of the seed venue's coordinates and its name similarity exceeds
// SimilarityMin. Among qualifying candidates a strictly higher
// similarity wins; on a tie the earlier search hit is kept. Every
// completed attempt is recorded in the map, successful or not, so a
// venue costs search budget at most once.
type Matcher struct {
	venues        *Map
	client        setlistfm.ClientInterface
	distanceKm    float64
	similarityMin int
}

// NewMatcher creates a matcher over the shared venue map.
func NewMatcher(venues *Map, client setlistfm.ClientInterface, cfg config.VenuesConfig) *Matcher {
	return &Matcher{
		venues:        venues,
		client:        client,
		distanceKm:    cfg.DistanceKm,
		similarityMin: cfg.SimilarityMin,
	}
}

// Resolve returns the setlist.fm venue id for a MusicBrainz venue,
// running a search-and-score match on a cache miss. A success registers
// the merged canonical venue under both ids; a miss is recorded under
// the seed's own id. ok is false when no counterpart exists (or can be
// determined).
func (m *Matcher) Resolve(ctx context.Context, venue models.Venue) (string, bool, error) {
	if venue.IDs.MBID == "" {
		return "", false, nil
	}
	if m.venues.Has(venue.IDs.MBID) {
		mapped, ok := m.venues.Get(venue.IDs.MBID)
		return mapped.IDs.SLID, ok, nil
	}

	// Distance needs both endpoints. Without seed coordinates any
	// same-named venue anywhere on Earth would qualify, so skip and do
	// not record: a later event may carry the coordinates.
	if venue.Coords == nil {
		metrics.VenueMatchesTotal.WithLabelValues("skipped").Inc()
		return "", false, nil
	}

	candidates, err := m.client.SearchVenues(ctx, venue.Names.MB)
	if err != nil {
		metrics.VenueMatchesTotal.WithLabelValues("error").Inc()
		return "", false, err
	}

	best, bestScore := m.pickBest(venue, candidates)
	if best == nil {
		// Record the miss so the search is not repeated next run.
		m.venues.Register(venue)
		metrics.VenueMatchesTotal.WithLabelValues("partial").Inc()
		logging.Ctx(ctx).Debug().
			Str("venue_mbid", venue.IDs.MBID).
			Str("venue_name", venue.Names.MB).
			Int("candidates", len(candidates)).
			Msg("no setlist.fm counterpart for venue")
		return "", false, nil
	}

	merged := venue
	merged.IDs.SLID = best.ID
	merged.Names.SL = best.Name
	if merged.City.Name == "" {
		merged.City.Name = best.City.Name
	}
	if merged.City.Coords == nil && best.City.Coords != nil {
		merged.City.Coords = &models.Coordinates{
			Lat: best.City.Coords.Lat,
			Lon: best.City.Coords.Long,
		}
	}
	m.venues.Register(merged)
	metrics.VenueMatchesTotal.WithLabelValues("matched").Inc()
	logging.Ctx(ctx).Info().
		Str("venue_mbid", venue.IDs.MBID).
		Str("venue_slid", best.ID).
		Str("venue_name", venue.Names.MB).
		Int("similarity", bestScore).
		Msg("matched venue across sources")
	return best.ID, true, nil
}

// pickBest scores the candidates against the seed venue and returns the
// winner, or nil when none qualify.
func (m *Matcher) pickBest(seed models.Venue, candidates []setlistfm.Venue) (*setlistfm.Venue, int) {
	var best *setlistfm.Venue
	bestScore := m.similarityMin

	for i := range candidates {
		cand := &candidates[i]
		if cand.City.Coords == nil {
			continue
		}
		dist := haversineDistance(
			seed.Coords.Lat, seed.Coords.Lon,
			cand.City.Coords.Lat, cand.City.Coords.Long,
		)
		if dist > m.distanceKm {
			continue
		}
		score := Similarity(seed.Names.MB, cand.Name)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best, bestScore
}

// Similarity scores two venue names 0-100 from their normalized edit
// distance, case-insensitively.
func Similarity(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

// haversineDistance calculates the great-circle distance between two
// points on Earth. Returns distance in kilometers.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
