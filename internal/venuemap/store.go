// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package venuemap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/stagemate/stagemate/internal/config"
	"github.com/stagemate/stagemate/internal/models"
)

// Store persists the venue identity map between runs. Each key is a
// source id (MusicBrainz place MBID or setlist.fm venue id) and each
// value the venue's canonical record; a record carrying only one id
// marks a completed match attempt that found nothing, so the matcher
// does not spend API budget re-searching it every run.
type Store interface {
	// Load reads all entries. A store that does not exist yet returns
	// an empty map, not an error.
	Load() (map[string]models.Venue, error)

	// Save writes the full entry set, replacing previous contents.
	Save(entries map[string]models.Venue) error

	Close() error
}

// NewStore constructs the configured store implementation.
func NewStore(cfg config.VenuesConfig) (Store, error) {
	switch cfg.Store {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "badger":
		return NewBadgerStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown venue store %q", cfg.Store)
	}
}

// FileStore keeps the map as one JSON object on disk. Suited to the
// map's actual scale: a couple of entries per distinct venue ever seen.
type FileStore struct {
	path string
}

// NewFileStore creates a JSON file store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the JSON file. A missing or unreadable file yields an
// empty map: the map is a cache of match decisions and is always safe
// to rebuild.
func (s *FileStore) Load() (map[string]models.Venue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]models.Venue{}, nil
	}
	entries := map[string]models.Venue{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]models.Venue{}, nil
	}
	return entries, nil
}

// Save writes the map atomically via a temp file rename.
func (s *FileStore) Save(entries map[string]models.Venue) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal venue map: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create venue map directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write venue map: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace venue map: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
