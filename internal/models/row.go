// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package models

import "time"

// ArtistEventRow is the flat interchange shape for one (event, artist)
// pair. An event with N performers flattens to N rows sharing the event
// and venue fields. Rows feed the recommendation ranking and are what the
// HTTP API returns for event listings.
type ArtistEventRow struct {
	ArtistID   string    `json:"artist_mbid"`
	ArtistName string    `json:"artist_name"`
	Date       time.Time `json:"date"`
	EventMBID  string    `json:"event_mbid,omitempty"`
	EventSLID  string    `json:"event_slid,omitempty"`
	VenueMBID  string    `json:"venue_mbid,omitempty"`
	VenueSLID  string    `json:"venue_slid,omitempty"`
	VenueName  string    `json:"venue_name,omitempty"`
	CityName   string    `json:"city_name,omitempty"`
}

// VenueKey returns the composite venue identity key for the row,
// matching Venue.Key for the venue the row was flattened from.
func (r ArtistEventRow) VenueKey() string {
	return r.VenueMBID + "|" + r.VenueSLID
}

// Flatten expands events into one row per (event, artist) pair,
// preserving event order and per-event artist order.
func Flatten(events []Event) []ArtistEventRow {
	rows := make([]ArtistEventRow, 0, len(events))
	for i := range events {
		e := &events[i]
		for _, a := range e.Artists {
			rows = append(rows, ArtistEventRow{
				ArtistID:   a.ID,
				ArtistName: a.Name,
				Date:       e.Date,
				EventMBID:  e.IDs.MBID,
				EventSLID:  e.IDs.SLID,
				VenueMBID:  e.Venue.IDs.MBID,
				VenueSLID:  e.Venue.IDs.SLID,
				VenueName:  e.Venue.Name(),
				CityName:   e.Venue.City.Name,
			})
		}
	}
	return rows
}
