// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package setlistfm implements the setlist-source client against the
// setlist.fm REST 1.0 API.
//
// Pages are 1-indexed. The first page of a setlists walk must expose the
// total record count and items-per-page; fetching stops once
// min(pageLimit*itemsPerPage, total) records are collected. Under rate
// pressure the API returns structurally incomplete bodies: those are
// retried with a fixed wait up to a fixed attempt budget, after which
// ErrRetriesExhausted is raised. A 404 means the entity has no data and
// yields an empty result, never an error.
package setlistfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
)

const maxErrorBodySize = 64 * 1024

// ClientInterface defines the setlist-source operations the pipeline
// needs. Satisfied by Client and by CircuitBreakerClient.
type ClientInterface interface {
	FetchSetlists(ctx context.Context, entityID string, kind models.EntityKind, pageLimit int) ([]Setlist, error)
	SearchVenues(ctx context.Context, name string) ([]Venue, error)
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the setlist.fm REST API. Safe for concurrent use; the
// shared limiter provides the global rate budget across artist pulls,
// venue fan-out and venue search.
type Client struct {
	baseURL       string
	apiKey        string
	retryAttempts int
	retryDelay    time.Duration
	client        *http.Client
	limiter       *rate.Limiter
}

// New creates a setlist.fm client from configuration.
func New(cfg config.SetlistConfig) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

// FetchSetlists pulls up to pageLimit pages of setlists for an artist
// (by MBID) or venue (by setlist.fm venue id).
func (c *Client) FetchSetlists(ctx context.Context, entityID string, kind models.EntityKind, pageLimit int) ([]Setlist, error) {
	start := time.Now()
	setlists, err := c.fetchSetlists(ctx, entityID, kind, pageLimit)
	metrics.ObserveFetch(string(models.SourceSetlist), string(kind), start, err)
	return setlists, err
}

func (c *Client) fetchSetlists(ctx context.Context, entityID string, kind models.EntityKind, pageLimit int) ([]Setlist, error) {
	path, err := setlistsPath(entityID, kind)
	if err != nil {
		return nil, err
	}

	// First page carries the walk bounds. Its absence of total or
	// itemsPerPage is the transient-incomplete signal.
	first, err := c.fetchPage(ctx, path, 1, func(r *SetlistsResponse) bool {
		return r.Total != nil && r.ItemsPerPage != nil
	})
	if err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}

	collected := first.Setlists
	maxRecords := pageLimit * (*first.ItemsPerPage)
	if *first.Total < maxRecords {
		maxRecords = *first.Total
	}

	page := 1
	for len(collected) < maxRecords {
		page++
		resp, err := c.fetchPage(ctx, path, page, func(r *SetlistsResponse) bool {
			return r.Setlists != nil
		})
		if err != nil {
			if err == errNotFound {
				break
			}
			return nil, err
		}
		if len(resp.Setlists) == 0 {
			// Defensive stop: the server reported more records than
			// it is willing to serve.
			break
		}
		collected = append(collected, resp.Setlists...)
	}

	if len(collected) > maxRecords {
		collected = collected[:maxRecords]
	}
	return collected, nil
}

// setlistsPath maps the entity kind to its setlists endpoint.
func setlistsPath(entityID string, kind models.EntityKind) (string, error) {
	switch kind {
	case models.EntityArtist:
		return "/artist/" + entityID + "/setlists", nil
	case models.EntityVenue:
		return "/venue/" + entityID + "/setlists", nil
	default:
		return "", fmt.Errorf("unsupported entity kind %q", kind)
	}
}

// fetchPage fetches one page, retrying while complete(resp) is false.
// The retry budget and inter-attempt wait are fixed; waits are
// context-cancellable. Exhausting the budget returns
// ErrRetriesExhausted wrapped with the request path.
func (c *Client) fetchPage(ctx context.Context, path string, page int, complete func(*SetlistsResponse) bool) (*SetlistsResponse, error) {
	params := url.Values{}
	params.Set("p", strconv.Itoa(page))

	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		var resp SetlistsResponse
		if err := c.get(ctx, path, params, &resp); err != nil {
			if err == errNotFound {
				return nil, errNotFound
			}
			return nil, fmt.Errorf("fetch %s p=%d: %w", path, page, err)
		}
		metrics.SourcePagesTotal.WithLabelValues(string(models.SourceSetlist)).Inc()

		// Some deployments signal "not found" in the body with an
		// HTTP 200 wrapper.
		if resp.Code == http.StatusNotFound {
			return nil, errNotFound
		}

		if complete(&resp) {
			return &resp, nil
		}

		logging.Ctx(ctx).Debug().
			Str("path", path).
			Int("page", page).
			Int("attempt", attempt).
			Msg("incomplete setlist.fm response, retrying")
		metrics.SourceRetriesTotal.WithLabelValues(string(models.SourceSetlist)).Inc()

		if attempt == c.retryAttempts {
			break
		}
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("fetch %s p=%d after %d attempts: %w", path, page, c.retryAttempts, ErrRetriesExhausted)
}

// SearchVenues searches venues by name for the identity matcher. A 404
// (no venues matched) is an empty result.
func (c *Client) SearchVenues(ctx context.Context, name string) ([]Venue, error) {
	params := url.Values{}
	params.Set("name", name)

	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		var resp SearchVenuesResponse
		if err := c.get(ctx, "/search/venues", params, &resp); err != nil {
			if err == errNotFound {
				return nil, nil
			}
			return nil, fmt.Errorf("search venues %q: %w", name, err)
		}

		if resp.Code == http.StatusNotFound {
			return nil, nil
		}
		if resp.Venues != nil {
			return resp.Venues, nil
		}

		metrics.SourceRetriesTotal.WithLabelValues(string(models.SourceSetlist)).Inc()
		if attempt == c.retryAttempts {
			break
		}
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("search venues %q after %d attempts: %w", name, c.retryAttempts, ErrRetriesExhausted)
}

// get performs one rate-limited GET and decodes the response. A 404
// status returns errNotFound for the caller to map to an empty result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readBodyForError reads a bounded prefix of the response body for error
// reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
