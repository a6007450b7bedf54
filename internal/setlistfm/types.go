// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package setlistfm

// Raw payload types for the setlist.fm REST 1.0 API.
//
// Total and ItemsPerPage are pointers because their absence is
// meaningful: under rate pressure setlist.fm returns structurally
// incomplete bodies, and a missing key (nil) triggers the bounded retry
// path rather than being mistaken for a zero.

// SetlistsResponse is the envelope of a setlists page.
type SetlistsResponse struct {
	Type         string    `json:"type,omitempty"`
	ItemsPerPage *int      `json:"itemsPerPage,omitempty"`
	Page         int       `json:"page,omitempty"`
	Total        *int      `json:"total,omitempty"`
	Setlists     []Setlist `json:"setlist,omitempty"`
	Code         int       `json:"code,omitempty"`
}

// Setlist is one crowd-sourced show record. EventDate is DD-MM-YYYY.
type Setlist struct {
	ID        string `json:"id"`
	EventDate string `json:"eventDate"`
	Artist    Artist `json:"artist"`
	Venue     Venue  `json:"venue"`
	URL       string `json:"url,omitempty"`
}

// Artist is the headliner of a setlist. MBID is the MusicBrainz artist
// id, which setlist.fm mirrors, giving both sources one artist id space.
type Artist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Venue is a setlist.fm venue record. Coordinates live on the city, not
// the venue itself.
type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City City   `json:"city"`
	URL  string `json:"url,omitempty"`
}

// City carries the venue's city and its city-level coordinates.
type City struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Coords *Coords `json:"coords,omitempty"`
}

// Coords is a latitude/longitude pair as setlist.fm spells it.
type Coords struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// SearchVenuesResponse is the envelope of a venue search.
type SearchVenuesResponse struct {
	Venues       []Venue `json:"venue,omitempty"`
	Total        *int    `json:"total,omitempty"`
	ItemsPerPage *int    `json:"itemsPerPage,omitempty"`
	Code         int     `json:"code,omitempty"`
}
