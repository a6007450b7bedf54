// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package musicbrainz

// Raw payload types for the MusicBrainz ws/2 JSON API. Fields are typed
// once here so downstream normalization never probes untyped maps; a
// missing field decodes to its zero value and is caught by validation.

// BrowseEventsResponse is the envelope of an event browse request.
type BrowseEventsResponse struct {
	EventCount  int     `json:"event-count"`
	EventOffset int     `json:"event-offset"`
	Events      []Event `json:"events"`
}

// Event is one MusicBrainz event record with relation expansions.
type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	LifeSpan  LifeSpan   `json:"life-span"`
	Relations []Relation `json:"relations"`
}

// LifeSpan carries an event's begin/end dates at whatever granularity
// the editor entered (YYYY-MM-DD, YYYY-MM, or YYYY).
type LifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// Relation is a typed edge from an event to another entity. TargetType
// discriminates which of Artist/Place is populated; Type carries the
// relation name ("main performer", "support act", "held at", ...).
type Relation struct {
	Type       string  `json:"type"`
	TargetType string  `json:"target-type"`
	Artist     *Artist `json:"artist,omitempty"`
	Place      *Place  `json:"place,omitempty"`
}

// heldAtRelation is the relation type that links an event to its venue.
const heldAtRelation = "held at"

// HeldAtPlace returns the venue place from the event's "held at"
// relation edge, or nil when the event has no such edge.
func (e *Event) HeldAtPlace() *Place {
	for i := range e.Relations {
		rel := &e.Relations[i]
		if rel.Type == heldAtRelation && rel.Place != nil {
			return rel.Place
		}
	}
	return nil
}

// PerformerRelations returns the event's artist relation edges in
// source order.
func (e *Event) PerformerRelations() []Relation {
	var out []Relation
	for _, rel := range e.Relations {
		if rel.TargetType == "artist" && rel.Artist != nil {
			out = append(out, rel)
		}
	}
	return out
}

// Artist is a MusicBrainz artist reference inside a relation.
type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation,omitempty"`
}

// Place is a MusicBrainz place (venue) record.
type Place struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates are venue-level WGS84 coordinates on a place record.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchArtistsResponse is the envelope of an artist search request.
type SearchArtistsResponse struct {
	Count   int            `json:"count"`
	Artists []SearchArtist `json:"artists"`
}

// SearchArtist is one artist search hit.
type SearchArtist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation,omitempty"`
	Score          int    `json:"score,omitempty"`
}
