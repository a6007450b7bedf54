// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package normalize

import (
	"testing"
	"time"

	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/musicbrainz"
	"github.com/stagemate/stagemate/internal/setlistfm"
)

func TestParseMusicBrainzDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2019-07-03", time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC), true},
		{"2019-07", time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"2019", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"03-07-2019", time.Time{}, false},
		{"2019-13", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseMusicBrainzDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseMusicBrainzDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseMusicBrainzDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSetlistDate(t *testing.T) {
	got, ok := ParseSetlistDate("03-07-2019")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok := ParseSetlistDate("2019-07-03"); ok {
		t.Error("ISO date must not parse as a setlist.fm date")
	}
	if _, ok := ParseSetlistDate(""); ok {
		t.Error("empty date must not parse")
	}
}

func mbEvent() musicbrainz.Event {
	return musicbrainz.Event{
		ID:       "ev-mb-1",
		Name:     "Summer Night",
		Type:     "Concert",
		LifeSpan: musicbrainz.LifeSpan{Begin: "2019-07-03"},
		Relations: []musicbrainz.Relation{
			{
				Type:       "main performer",
				TargetType: "artist",
				Artist:     &musicbrainz.Artist{ID: "a1", Name: "Headliner"},
			},
			{
				Type:       "support act",
				TargetType: "artist",
				Artist:     &musicbrainz.Artist{ID: "a2", Name: "Opener"},
			},
			{
				Type:       "held at",
				TargetType: "place",
				Place: &musicbrainz.Place{
					ID:   "pl-1",
					Name: "Massey Hall",
					Coordinates: &musicbrainz.Coordinates{
						Latitude:  43.6544,
						Longitude: -79.3807,
					},
				},
			},
		},
	}
}

func TestFromMusicBrainz(t *testing.T) {
	ev, ok := FromMusicBrainz(mbEvent())
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	if ev.IDs.MBID != "ev-mb-1" || ev.IDs.SLID != "" {
		t.Errorf("ids = %+v", ev.IDs)
	}
	if ev.Kind != "Concert" {
		t.Errorf("kind = %q", ev.Kind)
	}
	if len(ev.Artists) != 2 || ev.Artists[0].ID != "a1" || ev.Artists[1].ID != "a2" {
		t.Errorf("artists = %+v", ev.Artists)
	}
	if ev.Venue.IDs.MBID != "pl-1" || ev.Venue.Names.MB != "Massey Hall" {
		t.Errorf("venue = %+v", ev.Venue)
	}
	if ev.Venue.Coords == nil || ev.Venue.Coords.Lat != 43.6544 {
		t.Errorf("venue coords = %+v", ev.Venue.Coords)
	}
	if ev.URLs.MB != "https://musicbrainz.org/event/ev-mb-1" {
		t.Errorf("url = %q", ev.URLs.MB)
	}
}

func TestFromMusicBrainzRejects(t *testing.T) {
	noDate := mbEvent()
	noDate.LifeSpan.Begin = ""
	if _, ok := FromMusicBrainz(noDate); ok {
		t.Error("event without a begin date must be rejected")
	}

	noArtists := mbEvent()
	noArtists.Relations = noArtists.Relations[2:]
	if _, ok := FromMusicBrainz(noArtists); ok {
		t.Error("event without performers must be rejected")
	}

	noVenue := mbEvent()
	noVenue.Relations = noVenue.Relations[:2]
	if _, ok := FromMusicBrainz(noVenue); ok {
		t.Error("event without a held-at venue must be rejected")
	}
}

func TestMusicBrainzEventsDropVenueless(t *testing.T) {
	r := models.DateRange{
		From: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	noVenue := mbEvent()
	noVenue.Relations = noVenue.Relations[:2]

	events := MusicBrainzEvents([]musicbrainz.Event{noVenue}, r)
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}

func slSetlist() setlistfm.Setlist {
	return setlistfm.Setlist{
		ID:        "sl-1",
		EventDate: "03-07-2019",
		Artist:    setlistfm.Artist{MBID: "a1", Name: "Headliner"},
		Venue: setlistfm.Venue{
			ID:   "v-1",
			Name: "Massey Hall",
			City: setlistfm.City{
				Name:   "Toronto",
				Coords: &setlistfm.Coords{Lat: 43.6532, Long: -79.3832},
			},
		},
		URL: "https://www.setlist.fm/setlist/sl-1.html",
	}
}

func TestFromSetlist(t *testing.T) {
	ev, ok := FromSetlist(slSetlist())
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	if ev.IDs.SLID != "sl-1" || ev.IDs.MBID != "" {
		t.Errorf("ids = %+v", ev.IDs)
	}
	if !ev.Date.Equal(time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", ev.Date)
	}
	if len(ev.Artists) != 1 || ev.Artists[0].ID != "a1" {
		t.Errorf("artists = %+v", ev.Artists)
	}
	if ev.Venue.IDs.SLID != "v-1" || ev.Venue.City.Name != "Toronto" {
		t.Errorf("venue = %+v", ev.Venue)
	}
	if ev.Venue.City.Coords == nil || ev.Venue.City.Coords.Lon != -79.3832 {
		t.Errorf("city coords = %+v", ev.Venue.City.Coords)
	}
	if ev.Venue.Coords != nil {
		t.Error("setlist.fm venues must not carry venue-level coords")
	}
	if ev.URLs.SL != "https://www.setlist.fm/setlist/sl-1.html" {
		t.Errorf("url = %q", ev.URLs.SL)
	}
}

func TestFromSetlistRejects(t *testing.T) {
	noDate := slSetlist()
	noDate.EventDate = "not-a-date"
	if _, ok := FromSetlist(noDate); ok {
		t.Error("setlist with an unparseable date must be rejected")
	}

	noMBID := slSetlist()
	noMBID.Artist.MBID = ""
	if _, ok := FromSetlist(noMBID); ok {
		t.Error("setlist without an artist MBID must be rejected")
	}
}

func TestBatchConversionFiltersRange(t *testing.T) {
	r := models.DateRange{
		From: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	early := mbEvent()
	early.ID = "ev-mb-0"
	early.LifeSpan.Begin = "2014-05-01"
	inRange := mbEvent()
	malformed := mbEvent()
	malformed.ID = "ev-mb-2"
	malformed.LifeSpan.Begin = "soon"

	events := MusicBrainzEvents([]musicbrainz.Event{early, inRange, malformed}, r)
	if len(events) != 1 || events[0].IDs.MBID != "ev-mb-1" {
		t.Fatalf("got %+v, want only ev-mb-1", events)
	}

	late := slSetlist()
	late.ID = "sl-2"
	late.EventDate = "01-01-2020"
	slEvents := SetlistEvents([]setlistfm.Setlist{slSetlist(), late}, r)
	if len(slEvents) != 1 || slEvents[0].IDs.SLID != "sl-1" {
		t.Fatalf("got %+v, want only sl-1", slEvents)
	}
}

func TestRangeBoundariesInclusive(t *testing.T) {
	r := models.DateRange{
		From: time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC),
	}
	events := SetlistEvents([]setlistfm.Setlist{slSetlist()}, r)
	if len(events) != 1 {
		t.Fatal("event on the range boundary must be kept")
	}
}
