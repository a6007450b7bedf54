// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stagemate/stagemate/internal/config"
)

// NewRouter assembles the HTTP surface.
func NewRouter(h *Handler, sec config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(sec))
	r.Use(RequestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(sec))
			r.Get("/artists/search", h.SearchArtists)
			r.Get("/artists/{mbid}/events", h.ArtistEvents)
			r.Get("/artists/{mbid}/recommendations", h.Recommendations)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed", nil)
	})

	return r
}
