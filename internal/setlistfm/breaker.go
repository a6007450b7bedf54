// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package setlistfm

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
)

// CircuitBreakerClient wraps Client with a circuit breaker so a
// hard-down setlist.fm (or an exhausted daily quota) fails fast instead
// of burning the retry budget on every venue in a fan-out.
//
// The breaker uses real time for its interval and timeout; tests
// exercise the wrapped client directly.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ ClientInterface = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient creates a setlist.fm client with breaker
// protection. The circuit opens after a 60% failure rate over at least
// 10 requests, and probes again after 2 minutes.
func NewCircuitBreakerClient(cfg config.SetlistConfig) *CircuitBreakerClient {
	cbName := "setlistfm-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening setlist.fm circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("setlist.fm circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: New(cfg),
		cb:     cb,
		name:   cbName,
	}
}

// FetchSetlists delegates through the breaker.
func (c *CircuitBreakerClient) FetchSetlists(ctx context.Context, entityID string, kind models.EntityKind, pageLimit int) ([]Setlist, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.FetchSetlists(ctx, entityID, kind, pageLimit)
	})
	if err != nil {
		return nil, err
	}
	setlists, _ := result.([]Setlist)
	return setlists, nil
}

// SearchVenues delegates through the breaker.
func (c *CircuitBreakerClient) SearchVenues(ctx context.Context, name string) ([]Venue, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.SearchVenues(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	venues, _ := result.([]Venue)
	return venues, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
