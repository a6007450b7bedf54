// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package musicbrainz

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/models"
)

func testClient(serverURL string, pageSize int) *Client {
	return New(config.MusicBrainzConfig{
		BaseURL:    serverURL,
		UserAgent:  "stagemate-test/0",
		PageSize:   pageSize,
		RatePerSec: 1000, // tests must not wait on etiquette pacing
	})
}

// eventsPage fabricates a JSON page with n events starting at offset.
func eventsPage(offset, n int) string {
	var sb strings.Builder
	sb.WriteString(`{"event-count": 0, "event-offset": `)
	sb.WriteString(strconv.Itoa(offset))
	sb.WriteString(`, "events": [`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "ev-%d", "name": "Event %d", "life-span": {"begin": "2019-06-01"}}`, offset+i, offset+i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func TestBrowseEventsPaginatesUntilShortPage(t *testing.T) {
	const pageSize = 3
	var offsets []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("artist"); got != "artist-1" {
			t.Errorf("artist param = %q", got)
		}
		if got := r.URL.Query().Get("inc"); got != browseIncludes {
			t.Errorf("inc param = %q, want %q", got, browseIncludes)
		}
		if r.Header.Get("User-Agent") != "stagemate-test/0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)

		// Two full pages, then a short one.
		n := pageSize
		if offset >= 2*pageSize {
			n = 1
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, eventsPage(offset, n))
	}))
	defer server.Close()

	client := testClient(server.URL, pageSize)
	events, err := client.BrowseEvents(context.Background(), "artist-1", models.EntityArtist)
	if err != nil {
		t.Fatalf("BrowseEvents failed: %v", err)
	}

	if len(events) != 2*pageSize+1 {
		t.Errorf("got %d events, want %d", len(events), 2*pageSize+1)
	}
	wantOffsets := []int{0, pageSize, 2 * pageSize}
	if len(offsets) != len(wantOffsets) {
		t.Fatalf("made %d requests, want %d", len(offsets), len(wantOffsets))
	}
	for i, want := range wantOffsets {
		if offsets[i] != want {
			t.Errorf("request %d offset = %d, want %d", i, offsets[i], want)
		}
	}
}

func TestBrowseEventsVenueUsesPlaceParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("place"); got != "venue-1" {
			t.Errorf("place param = %q", got)
		}
		fmt.Fprint(w, eventsPage(0, 1))
	}))
	defer server.Close()

	client := testClient(server.URL, 100)
	if _, err := client.BrowseEvents(context.Background(), "venue-1", models.EntityVenue); err != nil {
		t.Fatalf("BrowseEvents failed: %v", err)
	}
}

func TestBrowseEventsTransportFailureIsHardError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(server.URL, 100)
	if _, err := client.BrowseEvents(context.Background(), "artist-1", models.EntityArtist); err == nil {
		t.Fatal("expected hard error on HTTP 503, got nil")
	}
}

func TestBrowseEventsUnknownKind(t *testing.T) {
	client := testClient("http://unused", 100)
	if _, err := client.BrowseEvents(context.Background(), "x", models.EntityKind("label")); err == nil {
		t.Fatal("expected error for unsupported entity kind")
	}
}

func TestSearchArtists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artist" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); !strings.Contains(q, "Korpiklaani") {
			t.Errorf("query param = %q", q)
		}
		fmt.Fprint(w, `{"count": 2, "artists": [
			{"id": "mb-1", "name": "Korpiklaani", "score": 100},
			{"id": "mb-2", "name": "Korpiklaani tribute", "disambiguation": "cover band", "score": 60}
		]}`)
	}))
	defer server.Close()

	client := testClient(server.URL, 100)
	artists, err := client.SearchArtists(context.Background(), "Korpiklaani")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("got %d artists, want 2", len(artists))
	}
	if artists[0].ID != "mb-1" || artists[0].Score != 100 {
		t.Errorf("unexpected first hit: %+v", artists[0])
	}
	if artists[1].Disambiguation != "cover band" {
		t.Errorf("disambiguation = %q", artists[1].Disambiguation)
	}
}

func TestGetPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/place-1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "place-1", "name": "La Sala Rossa",
			"coordinates": {"latitude": 45.5252, "longitude": -73.5958}}`)
	}))
	defer server.Close()

	client := testClient(server.URL, 100)
	place, err := client.GetPlace(context.Background(), "place-1")
	if err != nil {
		t.Fatalf("GetPlace failed: %v", err)
	}
	if place.Name != "La Sala Rossa" {
		t.Errorf("name = %q", place.Name)
	}
	if place.Coordinates == nil || place.Coordinates.Latitude != 45.5252 {
		t.Errorf("coordinates = %+v", place.Coordinates)
	}
}

func TestHeldAtPlace(t *testing.T) {
	ev := Event{Relations: []Relation{
		{Type: "main performer", TargetType: "artist", Artist: &Artist{ID: "a1"}},
		{Type: "held at", TargetType: "place", Place: &Place{ID: "p1", Name: "Venue"}},
	}}
	place := ev.HeldAtPlace()
	if place == nil || place.ID != "p1" {
		t.Errorf("HeldAtPlace() = %+v", place)
	}

	noVenue := Event{Relations: []Relation{
		{Type: "main performer", TargetType: "artist", Artist: &Artist{ID: "a1"}},
	}}
	if noVenue.HeldAtPlace() != nil {
		t.Error("expected nil place when no held-at relation exists")
	}
}

func TestPerformerRelations(t *testing.T) {
	ev := Event{Relations: []Relation{
		{Type: "held at", TargetType: "place", Place: &Place{ID: "p1"}},
		{Type: "main performer", TargetType: "artist", Artist: &Artist{ID: "a1"}},
		{Type: "support act", TargetType: "artist", Artist: &Artist{ID: "a2"}},
	}}
	perfs := ev.PerformerRelations()
	if len(perfs) != 2 {
		t.Fatalf("got %d performer relations, want 2", len(perfs))
	}
	if perfs[0].Artist.ID != "a1" || perfs[1].Artist.ID != "a2" {
		t.Errorf("performer order not preserved: %+v", perfs)
	}
}
