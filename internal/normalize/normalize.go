// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package normalize converts raw source payloads into canonical event
// records.
//
// Each source has its own date discipline: MusicBrainz life-span dates
// come at whatever granularity the editor entered (YYYY-MM-DD, YYYY-MM,
// or bare YYYY), setlist.fm event dates are always DD-MM-YYYY. Partial
// MusicBrainz dates resolve to the first instant of their period, so a
// bare year still orders and range-filters sensibly.
//
// Records missing the fields the pipeline cannot work without (a
// parseable date, at least one artist with an id, and for MusicBrainz
// a venue) are dropped and counted, never propagated half-formed.
package normalize

import (
	"time"

	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/musicbrainz"
	"github.com/stagemate/stagemate/internal/setlistfm"
)

// mbDateLayouts are tried in order; first match wins.
var mbDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

const slDateLayout = "02-01-2006"

// ParseMusicBrainzDate parses a life-span date at any of the three
// granularities MusicBrainz allows.
func ParseMusicBrainzDate(s string) (time.Time, bool) {
	for _, layout := range mbDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSetlistDate parses a setlist.fm DD-MM-YYYY event date.
func ParseSetlistDate(s string) (time.Time, bool) {
	t, err := time.Parse(slDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FromMusicBrainz converts one browsed MusicBrainz event. The venue is
// taken from the "held at" relation only. Returns false for records
// without a parseable begin date, without a venue, or without any
// performer: a venue-less event cannot feed the co-occurrence walk.
func FromMusicBrainz(raw musicbrainz.Event) (*models.Event, bool) {
	date, ok := ParseMusicBrainzDate(raw.LifeSpan.Begin)
	if !ok {
		reject(models.SourceMusicBrainz, "date", raw.ID)
		return nil, false
	}

	place := raw.HeldAtPlace()
	if place == nil {
		reject(models.SourceMusicBrainz, "venue", raw.ID)
		return nil, false
	}

	var artists []models.Artist
	for _, rel := range raw.PerformerRelations() {
		if rel.Artist.ID == "" {
			continue
		}
		artists = append(artists, models.Artist{
			ID:   rel.Artist.ID,
			Name: rel.Artist.Name,
		})
	}
	if len(artists) == 0 {
		reject(models.SourceMusicBrainz, "artists", raw.ID)
		return nil, false
	}

	event := &models.Event{
		IDs:     models.EventIDs{MBID: raw.ID},
		Date:    date,
		Kind:    raw.Type,
		Artists: artists,
		URLs:    models.EventURLs{MB: "https://musicbrainz.org/event/" + raw.ID},
	}

	event.Venue = models.Venue{
		IDs:   models.VenueIDs{MBID: place.ID},
		Names: models.VenueNames{MB: place.Name},
	}
	if place.Coordinates != nil {
		event.Venue.Coords = &models.Coordinates{
			Lat: place.Coordinates.Latitude,
			Lon: place.Coordinates.Longitude,
		}
	}

	return event, true
}

// FromSetlist converts one setlist.fm setlist. A setlist names exactly
// one artist; its venue coordinates are city-level. Returns false for
// records without a parseable date or without an artist MBID, which
// would be useless for cross-source matching.
func FromSetlist(raw setlistfm.Setlist) (*models.Event, bool) {
	date, ok := ParseSetlistDate(raw.EventDate)
	if !ok {
		reject(models.SourceSetlist, "date", raw.ID)
		return nil, false
	}
	if raw.Artist.MBID == "" {
		reject(models.SourceSetlist, "artists", raw.ID)
		return nil, false
	}

	event := &models.Event{
		IDs:  models.EventIDs{SLID: raw.ID},
		Date: date,
		Artists: []models.Artist{
			{ID: raw.Artist.MBID, Name: raw.Artist.Name},
		},
		URLs: models.EventURLs{SL: raw.URL},
	}

	if raw.Venue.ID != "" || raw.Venue.Name != "" {
		event.Venue = models.Venue{
			IDs:   models.VenueIDs{SLID: raw.Venue.ID},
			Names: models.VenueNames{SL: raw.Venue.Name},
			City:  models.City{Name: raw.Venue.City.Name},
		}
		if raw.Venue.City.Coords != nil {
			event.Venue.City.Coords = &models.Coordinates{
				Lat: raw.Venue.City.Coords.Lat,
				Lon: raw.Venue.City.Coords.Long,
			}
		}
	}

	return event, true
}

// MusicBrainzEvents converts a batch and drops events outside the date
// range, preserving source order.
func MusicBrainzEvents(raw []musicbrainz.Event, r models.DateRange) []models.Event {
	out := make([]models.Event, 0, len(raw))
	for _, re := range raw {
		ev, ok := FromMusicBrainz(re)
		if !ok || !r.Contains(ev.Date) {
			continue
		}
		out = append(out, *ev)
	}
	return out
}

// SetlistEvents converts a batch and drops events outside the date
// range, preserving source order.
func SetlistEvents(raw []setlistfm.Setlist, r models.DateRange) []models.Event {
	out := make([]models.Event, 0, len(raw))
	for _, rs := range raw {
		ev, ok := FromSetlist(rs)
		if !ok || !r.Contains(ev.Date) {
			continue
		}
		out = append(out, *ev)
	}
	return out
}

func reject(source models.Source, field, id string) {
	metrics.MalformedRecordsTotal.WithLabelValues(string(source)).Inc()
	logging.Debug().
		Str("source", string(source)).
		Str("field", field).
		Str("record_id", id).
		Msg("dropping malformed source record")
}
