// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

// Package venuemap maintains the durable cross-source venue identity
// map: each known venue's canonical record, keyed by either source's id.
//
// The map is the only state that survives across runs. It is loaded
// once at startup, grown in memory as reconciliation and the matcher
// pair venues up, and flushed at shutdown. Losing it costs API budget
// on the next run, nothing more.
package venuemap

import (
	"sync"

	"github.com/stagemate/stagemate/internal/logging"
	"github.com/stagemate/stagemate/internal/metrics"
	"github.com/stagemate/stagemate/internal/models"
)

// Map is the in-memory venue identity map over a durable Store. A full
// cross-source venue appears under both of its ids; an entry carrying
// one id records a completed match attempt that found no counterpart.
// Safe for concurrent use.
type Map struct {
	mu      sync.RWMutex
	entries map[string]models.Venue
	dirty   bool
	store   Store
}

// NewMap creates an empty map over the given store.
func NewMap(store Store) *Map {
	return &Map{
		entries: map[string]models.Venue{},
		store:   store,
	}
}

// Load replaces the in-memory entries with the store's contents. Store
// corruption or absence yields an empty map.
func (m *Map) Load() error {
	entries, err := m.store.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = entries
	m.dirty = false
	m.mu.Unlock()

	metrics.VenueMapEntries.Set(float64(len(entries)))
	logging.Info().Int("entries", len(entries)).Msg("venue identity map loaded")
	return nil
}

// Has reports whether a match attempt was already recorded under the
// id, including attempts that found no counterpart.
func (m *Map) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[id]
	return ok
}

// Get returns the canonical venue recorded under either source's id.
// ok is true only for a cross-source mapping; a recorded no-match
// returns the zero Venue and false.
func (m *Map) Get(id string) (models.Venue, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[id]
	if !ok || v.IDs.MBID == "" || v.IDs.SLID == "" {
		return models.Venue{}, false
	}
	return v, true
}

// Register records the canonical venue under every id it carries. A
// venue with both ids becomes reachable from either; one with a single
// id marks "searched, nothing found" so the venue is not re-searched
// next run.
func (m *Map) Register(v models.Venue) {
	if v.IsEmpty() {
		return
	}

	m.mu.Lock()
	if v.IDs.MBID != "" {
		m.entries[v.IDs.MBID] = v
	}
	if v.IDs.SLID != "" {
		m.entries[v.IDs.SLID] = v
	}
	m.dirty = true
	size := len(m.entries)
	m.mu.Unlock()

	metrics.VenueMapEntries.Set(float64(size))
}

// Len returns the number of recorded keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Flush persists the entries if anything changed since the last flush.
func (m *Map) Flush() error {
	m.mu.Lock()
	if !m.dirty {
		m.mu.Unlock()
		return nil
	}
	snapshot := make(map[string]models.Venue, len(m.entries))
	for k, v := range m.entries {
		snapshot[k] = v
	}
	m.mu.Unlock()

	if err := m.store.Save(snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()

	logging.Debug().Int("entries", len(snapshot)).Msg("venue identity map flushed")
	return nil
}

// Close flushes and releases the store.
func (m *Map) Close() error {
	if err := m.Flush(); err != nil {
		return err
	}
	return m.store.Close()
}
