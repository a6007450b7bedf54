// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package musicbrainz implements the graph-source client against the
// MusicBrainz ws/2 JSON API.
//
// Browse requests use offset/limit pagination with a fixed page size and
// repeat while the last page came back full; a short page ends the walk.
// There is no internal retry: a transport or decode failure propagates
// as a hard error to the caller, which treats it as a source-scoped
// failure. All requests pass through a client-side rate limiter because
// MusicBrainz enforces a strict requests-per-second etiquette.
package musicbrainz

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
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
)

// relation expansions requested on every browse so performer links and
// "held at" venue links are recoverable from each event record.
const browseIncludes = "event-rels+place-rels+artist-rels"

// maxErrorBodySize limits how much of an error response body is read
// back for diagnostics.
const maxErrorBodySize = 64 * 1024

// ClientInterface defines the graph-source operations the pipeline
// needs. Satisfied by Client and by test fakes.
type ClientInterface interface {
	BrowseEvents(ctx context.Context, entityID string, kind models.EntityKind) ([]Event, error)
	SearchArtists(ctx context.Context, name string) ([]SearchArtist, error)
	GetPlace(ctx context.Context, mbid string) (*Place, error)
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the MusicBrainz ws/2 JSON API.
// Safe for concurrent use; the limiter serializes request pacing.
type Client struct {
	baseURL   string
	userAgent string
	pageSize  int
	client    *http.Client
	limiter   *rate.Limiter
}

// New creates a MusicBrainz client from configuration.
func New(cfg config.MusicBrainzConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		pageSize:  cfg.PageSize,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

// BrowseEvents fetches every event linked to the given artist or venue,
// walking offset/limit pages until a short page signals the end.
func (c *Client) BrowseEvents(ctx context.Context, entityID string, kind models.EntityKind) ([]Event, error) {
	start := time.Now()
	events, err := c.browseEvents(ctx, entityID, kind)
	metrics.ObserveFetch(string(models.SourceMusicBrainz), string(kind), start, err)
	return events, err
}

func (c *Client) browseEvents(ctx context.Context, entityID string, kind models.EntityKind) ([]Event, error) {
	seedParam, err := browseSeedParam(kind)
	if err != nil {
		return nil, err
	}

	var events []Event
	offset := 0
	for {
		params := url.Values{}
		params.Set(seedParam, entityID)
		params.Set("inc", browseIncludes)
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page BrowseEventsResponse
		if err := c.get(ctx, "/event", params, &page); err != nil {
			return nil, fmt.Errorf("browse events %s=%s offset=%d: %w", seedParam, entityID, offset, err)
		}
		metrics.SourcePagesTotal.WithLabelValues(string(models.SourceMusicBrainz)).Inc()

		events = append(events, page.Events...)
		if len(page.Events) < c.pageSize {
			return events, nil
		}
		offset += c.pageSize
	}
}

// browseSeedParam maps the entity kind to the browse query parameter.
// MusicBrainz calls venues "places".
func browseSeedParam(kind models.EntityKind) (string, error) {
	switch kind {
	case models.EntityArtist:
		return "artist", nil
	case models.EntityVenue:
		return "place", nil
	default:
		return "", fmt.Errorf("unsupported entity kind %q", kind)
	}
}

// SearchArtists searches artists by name, returning hits in relevance
// order with disambiguation comments where available.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]SearchArtist, error) {
	params := url.Values{}
	params.Set("query", "artist:"+strconv.Quote(name))

	var result SearchArtistsResponse
	if err := c.get(ctx, "/artist", params, &result); err != nil {
		return nil, fmt.Errorf("search artists %q: %w", name, err)
	}
	return result.Artists, nil
}

// GetPlace looks up one place record by MBID, including coordinates.
func (c *Client) GetPlace(ctx context.Context, mbid string) (*Place, error) {
	var place Place
	if err := c.get(ctx, "/place/"+mbid, url.Values{}, &place); err != nil {
		return nil, fmt.Errorf("get place %s: %w", mbid, err)
	}
	return &place, nil
}

// get performs one rate-limited GET against the ws/2 API and decodes the
// JSON response into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("fmt", "json")
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

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
