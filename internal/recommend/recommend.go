// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package recommend ranks artists by venue co-occurrence.
//
// The signal is deliberately simple: artists who play the same rooms
// tend to share an audience. Each candidate is scored by the number of
// distinct venues it shares with the query artist's tour history; no
// audio features, no collaborative filtering, no training state.
package recommend

import (
	"sort"

	"github.com/stagemate/stagemate/internal/models"
)

// DefaultTopN is the recommendation list length when the caller does not
// specify one.
const DefaultTopN = 10

// Rank scores every artist in rows by distinct shared venues with the
// query artist and returns the top n, highest first. The sort is stable
// over first appearance in rows, so ties break toward artists seen
// earlier in the co-occurrence walk. The query artist is never a
// candidate. Fewer than n qualifying artists yield a shorter list,
// never padding.
func Rank(rows []models.ArtistEventRow, queryArtistID string, n int) []models.RankedCandidate {
	if n <= 0 {
		n = DefaultTopN
	}

	type candidate struct {
		name   string
		venues map[string]struct{}
	}

	byArtist := map[string]*candidate{}
	var order []string

	for _, row := range rows {
		if row.ArtistID == "" || row.ArtistID == queryArtistID {
			continue
		}
		key := row.VenueKey()
		if key == "|" {
			// Row without any venue identity carries no signal.
			continue
		}
		c, ok := byArtist[row.ArtistID]
		if !ok {
			c = &candidate{name: row.ArtistName, venues: map[string]struct{}{}}
			byArtist[row.ArtistID] = c
			order = append(order, row.ArtistID)
		}
		c.venues[key] = struct{}{}
	}

	ranked := make([]models.RankedCandidate, 0, len(order))
	for _, id := range order {
		c := byArtist[id]
		ranked = append(ranked, models.RankedCandidate{
			ArtistID:     id,
			ArtistName:   c.name,
			SharedVenues: len(c.venues),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SharedVenues > ranked[j].SharedVenues
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
