// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package pipeline orchestrates the two-source pulls.
//
// An artist pull fetches MusicBrainz and setlist.fm concurrently, waits
// for both, then reconciles. The co-occurrence walk fans out over the
// artist's distinct venues with a bounded worker pool; the setlist.fm
// rate limiter provides the global request budget, the pool only caps
// in-flight goroutines.
//
// setlist.fm is the degradable source: an exhausted retry budget or an
// open circuit drops its contribution for the current call and is
// surfaced as a summary note, never as an error. MusicBrainz failures
// are fatal to the call.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/musicbrainz"
	"github.com/stagemate/stagemate/internal/normalize"
	"github.com/stagemate/stagemate/internal/reconcile"
	"github.com/stagemate/stagemate/internal/recommend"
	"github.com/stagemate/stagemate/internal/setlistfm"
	"github.com/stagemate/stagemate/internal/venuemap"
)

// NoteSetlistUnavailable annotates a result produced without setlist.fm
// data.
const NoteSetlistUnavailable = "setlist.fm daily query limit reached, no events pulled from that source."

// Summary reports what a pipeline call did, for response metadata and
// logs.
type Summary struct {
	MusicBrainzEvents int      `json:"musicbrainz_events"`
	SetlistEvents     int      `json:"setlistfm_events"`
	MergedEvents      int      `json:"merged_events"`
	VenuesSeen        int      `json:"venues_seen,omitempty"`
	VenuesResolved    int      `json:"venues_resolved,omitempty"`
	Notes             []string `json:"notes,omitempty"`
}

func (s *Summary) note(msg string) {
	for _, n := range s.Notes {
		if n == msg {
			return
		}
	}
	s.Notes = append(s.Notes, msg)
}

// Text renders the summary as one sentence plus any degradation notes.
func (s *Summary) Text() string {
	parts := []string{fmt.Sprintf("Found %d events from MusicBrainz and %d from setlist.fm.",
		s.MusicBrainzEvents, s.SetlistEvents)}
	parts = append(parts, s.Notes...)
	return strings.Join(parts, " ")
}

// Pipeline wires the source clients, venue identity map and matcher.
type Pipeline struct {
	mb              musicbrainz.ClientInterface
	sl              setlistfm.ClientInterface
	venues          *venuemap.Map
	matcher         *venuemap.Matcher
	same            reconcile.SamePredicate
	artistPageLimit int
	venuePageLimit  int
	fanoutWorkers   int
}

// New creates a pipeline.
func New(mb musicbrainz.ClientInterface, sl setlistfm.ClientInterface, venues *venuemap.Map, matcher *venuemap.Matcher, slCfg config.SetlistConfig, plCfg config.PipelineConfig) *Pipeline {
	workers := plCfg.FanoutWorkers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		mb:              mb,
		sl:              sl,
		venues:          venues,
		matcher:         matcher,
		same:            reconcile.SameEvent,
		artistPageLimit: slCfg.ArtistPageLimit,
		venuePageLimit:  slCfg.VenuePageLimit,
		fanoutWorkers:   workers,
	}
}

// setlistDegraded reports whether an error means setlist.fm is
// temporarily out of budget rather than broken.
func setlistDegraded(err error) bool {
	return errors.Is(err, setlistfm.ErrRetriesExhausted) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

// PullArtistEvents returns the artist's reconciled event history within
// the date range, newest last in source order.
func (p *Pipeline) PullArtistEvents(ctx context.Context, artistMBID string, r models.DateRange) ([]models.Event, *Summary, error) {
	summary := &Summary{}

	var (
		wg      sync.WaitGroup
		mbRaw   []musicbrainz.Event
		mbErr   error
		slRaw   []setlistfm.Setlist
		slErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		mbRaw, mbErr = p.mb.BrowseEvents(ctx, artistMBID, models.EntityArtist)
	}()
	go func() {
		defer wg.Done()
		slRaw, slErr = p.sl.FetchSetlists(ctx, artistMBID, models.EntityArtist, p.artistPageLimit)
	}()
	wg.Wait()

	if mbErr != nil {
		return nil, nil, &models.SourceError{Source: models.SourceMusicBrainz, Err: mbErr}
	}
	if slErr != nil {
		if !setlistDegraded(slErr) {
			return nil, nil, &models.SourceError{Source: models.SourceSetlist, Err: slErr}
		}
		logging.Ctx(ctx).Warn().Err(slErr).Str("artist_mbid", artistMBID).
			Msg("continuing without setlist.fm data")
		summary.note(NoteSetlistUnavailable)
		slRaw = nil
	}

	mbEvents := normalize.MusicBrainzEvents(mbRaw, r)
	slEvents := normalize.SetlistEvents(slRaw, r)
	summary.MusicBrainzEvents = len(mbEvents)
	summary.SetlistEvents = len(slEvents)

	merged := reconcile.Merge(mbEvents, slEvents, p.venues, p.same)
	summary.MergedEvents = len(merged)

	logging.Ctx(ctx).Info().
		Str("artist_mbid", artistMBID).
		Int("musicbrainz", len(mbEvents)).
		Int("setlistfm", len(slEvents)).
		Int("merged", len(merged)).
		Msg("pulled artist event history")
	return merged, summary, nil
}

// venueSeed is one distinct venue from the artist's history, carrying
// the richest identity seen across its events.
type venueSeed struct {
	venue models.Venue
}

// distinctVenues collapses the events' venues by identity key, merging
// partial information (an event may know the coordinates another event
// of the same venue lacks).
func distinctVenues(events []models.Event) []venueSeed {
	byKey := map[string]int{}
	var seeds []venueSeed
	for i := range events {
		v := events[i].Venue
		if v.IsEmpty() {
			continue
		}
		idx, ok := byKey[v.Key()]
		if !ok {
			byKey[v.Key()] = len(seeds)
			seeds = append(seeds, venueSeed{venue: v})
			continue
		}
		seed := &seeds[idx].venue
		if seed.Coords == nil {
			seed.Coords = v.Coords
		}
		if seed.Names.MB == "" {
			seed.Names.MB = v.Names.MB
		}
		if seed.Names.SL == "" {
			seed.Names.SL = v.Names.SL
		}
	}
	return seeds
}

// resolveVenue fills in the setlist.fm id for a MusicBrainz-only venue,
// using the durable map first and the matcher on a miss. Venues lacking
// coordinates get one place lookup to obtain them.
func (p *Pipeline) resolveVenue(ctx context.Context, v models.Venue) (models.Venue, bool) {
	if v.IDs.SLID != "" {
		return v, true
	}
	if v.IDs.MBID == "" {
		return v, false
	}

	if mapped, ok := p.venues.Get(v.IDs.MBID); ok {
		v.IDs.SLID = mapped.IDs.SLID
		if v.Names.SL == "" {
			v.Names.SL = mapped.Names.SL
		}
		return v, true
	}

	if v.Coords == nil && !p.venues.Has(v.IDs.MBID) {
		place, err := p.mb.GetPlace(ctx, v.IDs.MBID)
		if err == nil && place != nil && place.Coordinates != nil {
			v.Coords = &models.Coordinates{
				Lat: place.Coordinates.Latitude,
				Lon: place.Coordinates.Longitude,
			}
		}
	}

	slid, ok, err := p.matcher.Resolve(ctx, v)
	if err != nil || !ok {
		return v, false
	}
	v.IDs.SLID = slid
	return v, true
}

// PullCoOccurrence walks the distinct venues of an artist's history and
// returns one row per (event, artist) pair observed at those venues,
// from both sources.
func (p *Pipeline) PullCoOccurrence(ctx context.Context, events []models.Event, r models.DateRange) ([]models.ArtistEventRow, *Summary, error) {
	summary := &Summary{}

	seeds := distinctVenues(events)
	summary.VenuesSeen = len(seeds)

	sem := make(chan struct{}, p.fanoutWorkers)
	results := make([]venueResult, len(seeds))
	var wg sync.WaitGroup

	for i := range seeds {
		wg.Add(1)
		go func(order int, seed venueSeed) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[order] = venueResult{err: ctx.Err()}
				return
			}
			results[order] = p.pullVenue(ctx, seed, r)
		}(i, seeds[i])
	}
	wg.Wait()

	var merged []models.Event
	resolved := 0
	for i := range results {
		res := &results[i]
		if res.err != nil {
			return nil, nil, res.err
		}
		if res.note != "" {
			summary.note(res.note)
		}
		if len(res.events) > 0 {
			resolved++
			merged = append(merged, res.events...)
		}
	}
	summary.VenuesResolved = resolved
	summary.MergedEvents = len(merged)

	rows := models.Flatten(merged)
	logging.Ctx(ctx).Info().
		Int("venues", len(seeds)).
		Int("resolved", resolved).
		Int("rows", len(rows)).
		Msg("completed co-occurrence walk")
	return rows, summary, nil
}

// venueResult is one venue's contribution to the co-occurrence walk.
type venueResult struct {
	events []models.Event
	note   string
	err    error
}

// pullVenue fetches one venue's events from both sources and reconciles
// them.
func (p *Pipeline) pullVenue(ctx context.Context, seed venueSeed, r models.DateRange) (res venueResult) {
	venue, _ := p.resolveVenue(ctx, seed.venue)

	var mbEvents []models.Event
	if venue.IDs.MBID != "" {
		raw, err := p.mb.BrowseEvents(ctx, venue.IDs.MBID, models.EntityVenue)
		if err != nil {
			res.err = &models.SourceError{Source: models.SourceMusicBrainz, Err: err}
			return res
		}
		mbEvents = normalize.MusicBrainzEvents(raw, r)
	}

	var slEvents []models.Event
	if venue.IDs.SLID != "" {
		raw, err := p.sl.FetchSetlists(ctx, venue.IDs.SLID, models.EntityVenue, p.venuePageLimit)
		if err != nil {
			if !setlistDegraded(err) {
				res.err = &models.SourceError{Source: models.SourceSetlist, Err: err}
				return res
			}
			res.note = NoteSetlistUnavailable
		} else {
			slEvents = normalize.SetlistEvents(raw, r)
		}
	}

	res.events = reconcile.Merge(mbEvents, slEvents, p.venues, p.same)

	// Pin the rows to the seed venue identity so flattening groups them
	// under one key regardless of which source produced each record.
	for i := range res.events {
		ev := &res.events[i]
		if ev.Venue.IDs.MBID == "" {
			ev.Venue.IDs.MBID = venue.IDs.MBID
		}
		if ev.Venue.IDs.SLID == "" {
			ev.Venue.IDs.SLID = venue.IDs.SLID
		}
	}
	return res
}

// Recommend runs the full walk for an artist and ranks co-occurring
// artists by shared venues.
func (p *Pipeline) Recommend(ctx context.Context, artistMBID string, r models.DateRange, topN int) ([]models.RankedCandidate, *Summary, error) {
	events, pullSummary, err := p.PullArtistEvents(ctx, artistMBID, r)
	if err != nil {
		return nil, nil, err
	}

	rows, walkSummary, err := p.PullCoOccurrence(ctx, events, r)
	if err != nil {
		return nil, nil, err
	}

	summary := &Summary{
		MusicBrainzEvents: pullSummary.MusicBrainzEvents,
		SetlistEvents:     pullSummary.SetlistEvents,
		MergedEvents:      pullSummary.MergedEvents,
		VenuesSeen:        walkSummary.VenuesSeen,
		VenuesResolved:    walkSummary.VenuesResolved,
	}
	for _, n := range append(pullSummary.Notes, walkSummary.Notes...) {
		summary.note(n)
	}

	ranked := recommend.Rank(rows, artistMBID, topN)
	return ranked, summary, nil
}

// SortRowsByDate orders rows oldest first for stable API listings.
func SortRowsByDate(rows []models.ArtistEventRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}
