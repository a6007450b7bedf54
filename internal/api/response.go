// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package api provides the HTTP surface: chi routing, middleware and
// handlers over the pipeline.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeUnprocessable = "UNPROCESSABLE"
)

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	resp := models.APIResponse{
		Status:   "ok",
		Data:     data,
		Metadata: models.NewMetadata(start),
	}
	writeEnvelope(w, r, status, &resp)
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.NewMetadata(time.Now()),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeEnvelope(w, r, status, &resp)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
