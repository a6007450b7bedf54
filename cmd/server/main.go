// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package main is the entry point for the Stagemate server.
//
// Stagemate answers one question: given an artist, which other artists
// have played the same venues? It pulls tour history from MusicBrainz
// and setlist.fm, reconciles the two views, and ranks co-occurring
// artists by shared venues over an HTTP API.
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Venue identity map: the durable MusicBrainz-to-setlist.fm venue
//     mapping, loaded from its file or badger store
//  3. Source clients: MusicBrainz (rate-limited) and setlist.fm
//     (rate-limited, retried, circuit-broken)
//  4. HTTP server: REST API plus Prometheus metrics
//
// Shutdown on SIGINT/SIGTERM drains in-flight requests and flushes the
// venue identity map.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stagemate/stagemate/internal/api"
	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/musicbrainz"
	"github.com/stagemate/stagemate/internal/pipeline"
	"github.com/stagemate/stagemate/internal/setlistfm"
	"github.com/stagemate/stagemate/internal/venuemap"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("venue_store", cfg.Venues.Store).
		Str("start_date", cfg.Pipeline.StartDate).
		Msg("Starting Stagemate")

	store, err := venuemap.NewStore(cfg.Venues)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open venue store")
	}
	venues := venuemap.NewMap(store)
	if err := venues.Load(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load venue identity map")
	}
	defer func() {
		if err := venues.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing venue identity map")
		}
	}()

	mbClient := musicbrainz.New(cfg.MusicBrainz)
	slClient := setlistfm.NewCircuitBreakerClient(cfg.Setlist)
	matcher := venuemap.NewMatcher(venues, slClient, cfg.Venues)
	pipe := pipeline.New(mbClient, slClient, venues, matcher, cfg.Setlist, cfg.Pipeline)

	handler := api.NewHandler(pipe, mbClient, venues, cfg.StartDate(), version)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := venues.Flush(); err != nil {
		logging.Error().Err(err).Msg("Failed to flush venue identity map")
	}

	logging.Info().Msg("Application stopped gracefully")
}
