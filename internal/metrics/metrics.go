// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package metrics provides Prometheus instrumentation for the pipeline:
// source fetch volume and latency, retry pressure on setlist.fm,
// circuit breaker state, reconciliation effectiveness, venue identity
// matching outcomes, and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source client metrics. Label "source" is "musicbrainz" or
	// "setlistfm"; "kind" is the seed entity kind ("artist", "venue").
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetches_total",
			Help: "Total fetch operations against an external source",
		},
		[]string{"source", "kind", "outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of complete paginated fetches per source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "kind"},
	)

	SourcePagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_pages_total",
			Help: "Total pages fetched per source",
		},
		[]string{"source"},
	)

	SourceRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_retries_total",
			Help: "Total transient-response retries per source",
		},
		[]string{"source"},
	)

	// Circuit breaker metrics (setlist.fm client wrapper).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Normalization and reconciliation metrics.
	MalformedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malformed_records_total",
			Help: "Raw records dropped during normalization",
		},
		[]string{"source"},
	)

	ReconcileMergedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_merged_events_total",
			Help: "Cross-source event pairs merged during reconciliation",
		},
	)

	// Venue identity metrics.
	VenueMapEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "venue_map_entries",
			Help: "Current number of venue identity map entries",
		},
	)

	VenueMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_matches_total",
			Help: "Cross-source venue match attempts by outcome (matched, partial, skipped, error)",
		},
		[]string{"outcome"},
	)

	// HTTP metrics.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// ObserveFetch records one complete fetch operation.
func ObserveFetch(source, kind string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	SourceFetchesTotal.WithLabelValues(source, kind, outcome).Inc()
	SourceFetchDuration.WithLabelValues(source, kind).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(path, method string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
}
