// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package models defines the canonical cross-source data model.
//
// Raw payloads from MusicBrainz and setlist.fm are normalized into these
// records once, at the edge; everything downstream (reconciliation, venue
// identity mapping, ranking) operates on them. Instances live for the
// duration of one pipeline call — only venue map entries are durable.
package models

import "time"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Artist identifies a performer. ID is the MusicBrainz artist MBID, which
// setlist.fm also exposes, so one id space covers both sources.
type Artist struct {
	ID   string `json:"mbid"`
	Name string `json:"name"`
}

// Equal reports whether two artists are the same record (id and name).
func (a Artist) Equal(other Artist) bool {
	return a.ID == other.ID && a.Name == other.Name
}

// VenueIDs carries a venue's id in each source. Either may be empty.
type VenueIDs struct {
	MBID string `json:"mbid,omitempty"`
	SLID string `json:"slid,omitempty"`
}

// VenueNames carries a venue's name as each source spells it.
type VenueNames struct {
	MB string `json:"mb,omitempty"`
	SL string `json:"sl,omitempty"`
}

// City is the venue's city as reported by setlist.fm, whose venue records
// carry city-level coordinates rather than venue-level ones.
type City struct {
	Name   string       `json:"name,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// Venue is the canonical cross-source representation of one physical
// venue. Coords are venue-level (MusicBrainz places); City.Coords are
// city-level (setlist.fm). Two venue ids resolve to the same canonical
// instance only through the venue identity map.
type Venue struct {
	IDs    VenueIDs     `json:"ids"`
	Names  VenueNames   `json:"names"`
	City   City         `json:"city"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// IsEmpty reports whether the venue carries no identity in either source.
func (v Venue) IsEmpty() bool {
	return v.IDs.MBID == "" && v.IDs.SLID == ""
}

// Name returns the best available display name, preferring MusicBrainz.
func (v Venue) Name() string {
	if v.Names.MB != "" {
		return v.Names.MB
	}
	return v.Names.SL
}

// Key returns the composite identity key "mbid|slid". Venues reached
// through different events compare equal iff their keys match, so a
// cross-source venue is grouped once regardless of which source each
// event came from.
func (v Venue) Key() string {
	return v.IDs.MBID + "|" + v.IDs.SLID
}

// EventIDs carries an event's id in each source. Either may be empty.
type EventIDs struct {
	MBID string `json:"mbid,omitempty"`
	SLID string `json:"slid,omitempty"`
}

// EventURLs carries per-source web links for an event.
type EventURLs struct {
	MB string `json:"mb,omitempty"`
	SL string `json:"sl,omitempty"`
}

// Event is one real-world performance. Artists preserves source order and
// may repeat; matching treats it as a set of artist ids.
type Event struct {
	IDs     EventIDs  `json:"ids"`
	Date    time.Time `json:"date"`
	Kind    string    `json:"kind,omitempty"`
	Artists []Artist  `json:"artists"`
	Venue   Venue     `json:"venue"`
	URLs    EventURLs `json:"urls"`
}

// ArtistIDSet returns the set of artist ids on the event.
func (e *Event) ArtistIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(e.Artists))
	for _, a := range e.Artists {
		ids[a.ID] = struct{}{}
	}
	return ids
}

// HasArtist reports whether the event lists the given artist id.
func (e *Event) HasArtist(id string) bool {
	for _, a := range e.Artists {
		if a.ID == id {
			return true
		}
	}
	return false
}

// DateRange is a closed interval used to filter events.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls within the range, inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// RankedCandidate is one entry of a recommendation result: an artist and
// the number of distinct venues shared with the query artist.
type RankedCandidate struct {
	ArtistID     string `json:"artist_mbid"`
	ArtistName   string `json:"artist_name"`
	SharedVenues int    `json:"shared_venues"`
}
