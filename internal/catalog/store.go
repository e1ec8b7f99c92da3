// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package catalog persists the fragrance catalog in BadgerDB and serves
// the snapshot the matching engine builds its model from. Items keep a
// monotonically increasing insertion sequence so snapshot order (and
// with it, score tie-breaking) is deterministic across restarts.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

// ErrNotFound is returned when a fragrance ID does not exist.
var ErrNotFound = errors.New("catalog: fragrance not found")

var keyPrefix = []byte("fragrance:")

const seqKey = "catalog_insert_seq"

// record is the stored representation of one catalog item.
type record struct {
	Seq       uint64            `json:"seq"`
	Fragrance matcher.Fragrance `json:"fragrance"`
}

// Store is the Badger-backed catalog store. It implements
// matcher.CatalogProvider and is safe for concurrent use.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger zerolog.Logger
}

// Open opens (or creates) the store at path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(path string, logger zerolog.Logger) (*Store, error) {
	componentLogger := logger.With().Str("component", "catalog").Logger()

	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{componentLogger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog store at %s: %w", path, err)
	}

	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open insert sequence: %w", err)
	}

	s := &Store{db: db, seq: seq, logger: componentLogger}
	if count, err := s.Count(); err == nil {
		metrics.CatalogItems.Set(float64(count))
	}
	return s, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("releasing insert sequence")
	}
	return s.db.Close()
}

func itemKey(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

// Put inserts or updates a fragrance. New items get the next insertion
// sequence; updates keep their original position.
func (s *Store) Put(f matcher.Fragrance) error {
	if f.ID == "" {
		return fmt.Errorf("catalog: fragrance ID must not be empty")
	}
	f.Canonicalize()

	err := s.db.Update(func(txn *badger.Txn) error {
		rec := record{Fragrance: f}

		switch existing, err := txn.Get(itemKey(f.ID)); {
		case err == nil:
			var prev record
			if err := existing.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return fmt.Errorf("decode existing record: %w", err)
			}
			rec.Seq = prev.Seq
		case errors.Is(err, badger.ErrKeyNotFound):
			next, err := s.seq.Next()
			if err != nil {
				return fmt.Errorf("next insert sequence: %w", err)
			}
			rec.Seq = next
		default:
			return fmt.Errorf("lookup %s: %w", f.ID, err)
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		return txn.Set(itemKey(f.ID), payload)
	})
	if err != nil {
		return err
	}

	s.refreshItemGauge()
	return nil
}

// Get returns one fragrance by ID.
func (s *Store) Get(id string) (matcher.Fragrance, error) {
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(itemKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup %s: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return matcher.Fragrance{}, err
	}
	return rec.Fragrance, nil
}

// Delete removes a fragrance by ID.
func (s *Store) Delete(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(itemKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("lookup %s: %w", id, err)
		}
		return txn.Delete(itemKey(id))
	})
	if err != nil {
		return err
	}

	s.refreshItemGauge()
	return nil
}

// Snapshot implements matcher.CatalogProvider, returning every item in
// insertion order.
func (s *Store) Snapshot(_ context.Context) ([]matcher.Fragrance, error) {
	records, err := s.allRecords()
	if err != nil {
		return nil, err
	}
	items := make([]matcher.Fragrance, len(records))
	for i, rec := range records {
		items[i] = rec.Fragrance
	}
	return items, nil
}

// Count returns the number of stored fragrances.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

func (s *Store) allRecords() ([]record, error) {
	var records []record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			var rec record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
	return records, nil
}

// ImportJSON loads a JSON catalog file (an array of fragrances) into
// the store, upserting by ID. Returns the number of imported items.
func (s *Store) ImportJSON(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog file: %w", err)
	}

	var items []matcher.Fragrance
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&items); err != nil {
		return 0, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	imported := 0
	for _, item := range items {
		if item.ID == "" {
			s.logger.Warn().Str("name", item.Name).Msg("skipping catalog entry without ID")
			continue
		}
		if err := s.Put(item); err != nil {
			return imported, fmt.Errorf("import %s: %w", item.ID, err)
		}
		imported++
	}

	s.logger.Info().Int("imported", imported).Str("file", path).Msg("catalog import complete")
	metrics.CatalogMutationsTotal.WithLabelValues("import").Add(float64(imported))
	return imported, nil
}

func (s *Store) refreshItemGauge() {
	if count, err := s.Count(); err == nil {
		metrics.CatalogItems.Set(float64(count))
	}
}

// badgerLogger adapts Badger's logger interface onto zerolog. Badger is
// chatty at INFO during compaction, so its info output maps to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
