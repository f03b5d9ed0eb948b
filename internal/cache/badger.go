// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenDB opens the badger database at path. An empty path opens it in
// memory.
func OpenDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return db, nil
}

// RunValueLogGC runs value log GC until nothing is left to rewrite and
// returns the number of rewritten files. In-memory databases have no
// value log and return 0.
func RunValueLogGC(db *badger.DB, ratio float64) (int, error) {
	if db.Opts().InMemory {
		return 0, nil
	}

	rewrites := 0
	for {
		err := db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return rewrites, nil
		}
		if err != nil {
			return rewrites, fmt.Errorf("run GC: %w", err)
		}
		rewrites++
	}
}
