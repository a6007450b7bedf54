// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package models

import (
	"testing"
	"time"
)

func TestVenueIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		venue Venue
		want  bool
	}{
		{"no ids", Venue{}, true},
		{"only name", Venue{Names: VenueNames{MB: "Roadburn"}}, true},
		{"mb id", Venue{IDs: VenueIDs{MBID: "mb-1"}}, false},
		{"sl id", Venue{IDs: VenueIDs{SLID: "sl-1"}}, false},
		{"both ids", Venue{IDs: VenueIDs{MBID: "mb-1", SLID: "sl-1"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.venue.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVenueKey(t *testing.T) {
	v := Venue{IDs: VenueIDs{MBID: "mb-1", SLID: "sl-9"}}
	if got := v.Key(); got != "mb-1|sl-9" {
		t.Errorf("Key() = %q, want %q", got, "mb-1|sl-9")
	}

	// Partial identity still yields a usable key.
	partial := Venue{IDs: VenueIDs{MBID: "mb-1"}}
	if got := partial.Key(); got != "mb-1|" {
		t.Errorf("Key() = %q, want %q", got, "mb-1|")
	}
}

func TestVenueNamePrefersMusicBrainz(t *testing.T) {
	v := Venue{Names: VenueNames{MB: "La Sala Rossa", SL: "Sala Rossa"}}
	if got := v.Name(); got != "La Sala Rossa" {
		t.Errorf("Name() = %q, want La Sala Rossa", got)
	}
	v.Names.MB = ""
	if got := v.Name(); got != "Sala Rossa" {
		t.Errorf("Name() = %q, want Sala Rossa", got)
	}
}

func TestArtistEqual(t *testing.T) {
	a := Artist{ID: "1", Name: "Korpiklaani"}
	if !a.Equal(Artist{ID: "1", Name: "Korpiklaani"}) {
		t.Error("expected equal artists")
	}
	if a.Equal(Artist{ID: "1", Name: "Finntroll"}) {
		t.Error("same id, different name must not be equal")
	}
	if a.Equal(Artist{ID: "2", Name: "Korpiklaani"}) {
		t.Error("different id must not be equal")
	}
}

func TestEventArtistIDSet(t *testing.T) {
	e := Event{Artists: []Artist{{ID: "a"}, {ID: "b"}, {ID: "a"}}}
	set := e.ArtistIDSet()
	if len(set) != 2 {
		t.Errorf("expected 2 distinct ids, got %d", len(set))
	}
	if !e.HasArtist("b") {
		t.Error("HasArtist(b) = false, want true")
	}
	if e.HasArtist("c") {
		t.Error("HasArtist(c) = true, want false")
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		From: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	if r.Contains(time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("2010-05-01 should be outside [2015-01-01, 2020-12-31]")
	}
	if !r.Contains(r.From) || !r.Contains(r.To) {
		t.Error("range must be inclusive of both endpoints")
	}
	if !r.Contains(time.Date(2017, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("interior date should be in range")
	}
}

func TestFlatten(t *testing.T) {
	date := time.Date(2019, 3, 2, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{
			IDs:  EventIDs{MBID: "ev-1"},
			Date: date,
			Artists: []Artist{
				{ID: "a1", Name: "Artist One"},
				{ID: "a2", Name: "Artist Two"},
			},
			Venue: Venue{
				IDs:   VenueIDs{MBID: "v-mb", SLID: "v-sl"},
				Names: VenueNames{MB: "The Venue"},
				City:  City{Name: "Montreal"},
			},
		},
		{
			IDs:     EventIDs{SLID: "ev-2"},
			Date:    date,
			Artists: []Artist{{ID: "a3", Name: "Artist Three"}},
			Venue:   Venue{IDs: VenueIDs{SLID: "v2-sl"}, Names: VenueNames{SL: "Other"}},
		},
	}

	rows := Flatten(events)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.ArtistID != "a1" || first.VenueMBID != "v-mb" || first.VenueSLID != "v-sl" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.VenueName != "The Venue" || first.CityName != "Montreal" {
		t.Errorf("venue fields not carried onto row: %+v", first)
	}
	if first.VenueKey() != "v-mb|v-sl" {
		t.Errorf("VenueKey() = %q", first.VenueKey())
	}

	// Rows from the same event share event/venue fields.
	if rows[1].EventMBID != "ev-1" || rows[1].VenueKey() != first.VenueKey() {
		t.Errorf("second row should share event fields: %+v", rows[1])
	}

	if rows[2].EventSLID != "ev-2" || rows[2].VenueName != "Other" {
		t.Errorf("unexpected third row: %+v", rows[2])
	}
}

func TestFlattenEmpty(t *testing.T) {
	if rows := Flatten(nil); len(rows) != 0 {
		t.Errorf("Flatten(nil) = %d rows, want 0", len(rows))
	}
}
