// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package venuemap

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/stagemate/stagemate/internal/models"
)

const venueKeyPrefix = "venue:"

// BadgerStore keeps the venue identity map in BadgerDB. Opt-in via
// config for deployments that already run badger elsewhere and want
// crash-consistent writes instead of whole-file rewrites.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open venue store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Load reads all venue entries. A value that does not decode is
// skipped, matching the file store's rebuild-on-corruption stance.
func (s *BadgerStore) Load() (map[string]models.Venue, error) {
	entries := map[string]models.Venue{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(venueKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), venueKeyPrefix)
			if err := item.Value(func(val []byte) error {
				var v models.Venue
				if err := json.Unmarshal(val, &v); err != nil {
					return nil
				}
				entries[id] = v
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load venue map: %w", err)
	}
	return entries, nil
}

// Save writes the full entry set. Existing keys are overwritten;
// entries are never removed, matching the map's append-only use.
func (s *BadgerStore) Save(entries map[string]models.Venue) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for id, v := range entries {
		val, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal venue entry: %w", err)
		}
		if err := wb.Set([]byte(venueKeyPrefix+id), val); err != nil {
			return fmt.Errorf("set venue entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush venue map: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
