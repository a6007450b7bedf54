// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/models"
	"github.com/stagemate/stagemate/internal/musicbrainz"
	"github.com/stagemate/stagemate/internal/pipeline"
	"github.com/stagemate/stagemate/internal/recommend"
	"github.com/stagemate/stagemate/internal/validation"
	"github.com/stagemate/stagemate/internal/venuemap"
)

const dateLayout = "2006-01-02"

// Handler serves the API endpoints over the pipeline.
type Handler struct {
	pipeline  *pipeline.Pipeline
	mb        musicbrainz.ClientInterface
	venues    *venuemap.Map
	startDate time.Time
	version   string
}

// NewHandler creates the handler set.
func NewHandler(p *pipeline.Pipeline, mb musicbrainz.ClientInterface, venues *venuemap.Map, startDate time.Time, version string) *Handler {
	return &Handler{
		pipeline:  p,
		mb:        mb,
		venues:    venues,
		startDate: startDate,
		version:   version,
	}
}

// Health reports liveness plus the venue map size, the only state worth
// watching.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"version":           h.version,
		"venue_map_entries": h.venues.Len(),
	}, start)
}

type searchRequest struct {
	Name string `validate:"required,min=1,max=200"`
}

// SearchArtists resolves an artist name to MBID candidates.
func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := searchRequest{Name: r.URL.Query().Get("name")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	hits, err := h.mb.SearchArtists(r.Context(), req.Name)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("name", req.Name).Msg("artist search failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeUpstream, "artist search failed", nil)
		return
	}

	results := make([]models.ArtistSearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.ArtistSearchResult{
			MBID:           hit.ID,
			Name:           hit.Name,
			Disambiguation: hit.Disambiguation,
			Score:          hit.Score,
		})
	}
	respondJSON(w, r, http.StatusOK, results, start)
}

type eventsRequest struct {
	MBID string `validate:"required,mbid"`
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

// dateRange resolves the request's from/to against the configured
// defaults: start date through today.
func (h *Handler) dateRange(req eventsRequest) (models.DateRange, bool) {
	r := models.DateRange{
		From: h.startDate,
		To:   time.Now().UTC().Truncate(24 * time.Hour),
	}
	if req.From != "" {
		t, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return r, false
		}
		r.From = t
	}
	if req.To != "" {
		t, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return r, false
		}
		r.To = t
	}
	return r, !r.To.Before(r.From)
}

// ArtistEvents returns the artist's reconciled event history.
func (h *Handler) ArtistEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := eventsRequest{
		MBID: chi.URLParam(r, "mbid"),
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
	dr, ok := h.dateRange(req)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid date range", nil)
		return
	}

	events, summary, err := h.pipeline.PullArtistEvents(r.Context(), req.MBID, dr)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("artist_mbid", req.MBID).Msg("event pull failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeUpstream, "event pull failed", nil)
		return
	}

	rows := models.Flatten(events)
	pipeline.SortRowsByDate(rows)

	venueKeys := make(map[string]struct{})
	for _, ev := range events {
		if key := ev.Venue.Key(); key != "|" {
			venueKeys[key] = struct{}{}
		}
	}

	respondJSON(w, r, http.StatusOK, models.ArtistEventsResult{
		ArtistMBID: req.MBID,
		From:       dr.From.Format(dateLayout),
		To:         dr.To.Format(dateLayout),
		Events:     rows,
		EventCount: len(events),
		VenueCount: len(venueKeys),
		SourceCounts: map[string]int{
			string(models.SourceMusicBrainz): summary.MusicBrainzEvents,
			string(models.SourceSetlist):     summary.SetlistEvents,
		},
		Summary: summary.Text(),
		Notes:   summary.Notes,
	}, start)
}

type recommendationsRequest struct {
	MBID string `validate:"required,mbid"`
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
	TopN int    `validate:"omitempty,min=1,max=100"`
}

// Recommendations runs the full co-occurrence walk and ranks artists by
// shared venues.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := recommendationsRequest{
		MBID: chi.URLParam(r, "mbid"),
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer", nil)
			return
		}
		req.TopN = n
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
	if req.TopN == 0 {
		req.TopN = recommend.DefaultTopN
	}

	dr, ok := h.dateRange(eventsRequest{MBID: req.MBID, From: req.From, To: req.To})
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid date range", nil)
		return
	}

	ranked, summary, err := h.pipeline.Recommend(r.Context(), req.MBID, dr, req.TopN)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("artist_mbid", req.MBID).Msg("recommendation walk failed")
		respondError(w, r, http.StatusBadGateway, ErrCodeUpstream, "recommendation walk failed", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, models.RecommendationsResult{
		ArtistMBID:     req.MBID,
		Candidates:     ranked,
		VenuesSeen:     summary.VenuesSeen,
		VenuesResolved: summary.VenuesResolved,
		Summary:        summary.Text(),
		Notes:          summary.Notes,
	}, start)
}
