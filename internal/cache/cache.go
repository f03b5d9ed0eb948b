// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/jellydator/ttlcache/v3"

	"github.com/tomtom215/animerec/internal/metrics"
)

// Tier labels for metrics.
const (
	TierMemory = "memory"
	TierDisk   = "disk"
)

// Options configures a Store.
type Options struct {
	// Prefix namespaces keys inside the shared badger database.
	Prefix string

	// TTL is the badger entry lifetime.
	TTL time.Duration

	// MemoryTTL and MemoryCapacity bound the in-process tier.
	MemoryTTL      time.Duration
	MemoryCapacity uint64
}

// Stats tracks cache performance.
type Stats struct {
	Hits       int64
	MemoryHits int64
	Misses     int64
	Entries    int
}

// HitRate returns the hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// Store is a two-tier cache: a bounded ttlcache in memory in front of
// badger. Values are stored in badger as JSON. Safe for concurrent use.
type Store[V any] struct {
	db   *badger.DB
	mem  *ttlcache.Cache[string, V]
	opts Options

	hits       atomic.Int64
	memoryHits atomic.Int64
	misses     atomic.Int64
}

// NewStore creates a store over db. db may be nil, leaving only the memory
// tier.
func NewStore[V any](db *badger.DB, opts Options) *Store[V] {
	memOpts := []ttlcache.Option[string, V]{
		ttlcache.WithTTL[string, V](opts.MemoryTTL),
	}
	if opts.MemoryCapacity > 0 {
		memOpts = append(memOpts, ttlcache.WithCapacity[string, V](opts.MemoryCapacity))
	}

	s := &Store[V]{
		db:   db,
		mem:  ttlcache.New(memOpts...),
		opts: opts,
	}
	go s.mem.Start()
	return s
}

func (s *Store[V]) key(k string) []byte {
	return []byte(s.opts.Prefix + k)
}

// Get returns the cached value, checking memory first.
func (s *Store[V]) Get(k string) (V, bool) {
	if item := s.mem.Get(k); item != nil {
		metrics.RecordCacheLookup(TierMemory, true)
		s.hits.Add(1)
		s.memoryHits.Add(1)
		return item.Value(), true
	}
	metrics.RecordCacheLookup(TierMemory, false)

	var zero V
	if s.db == nil {
		s.misses.Add(1)
		return zero, false
	}

	var v V
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(k))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
	})
	if err != nil {
		metrics.RecordCacheLookup(TierDisk, false)
		s.misses.Add(1)
		return zero, false
	}

	metrics.RecordCacheLookup(TierDisk, true)
	s.hits.Add(1)
	s.mem.Set(k, v, ttlcache.DefaultTTL)
	return v, true
}

// Set stores v in both tiers.
func (s *Store[V]) Set(k string, v V) error {
	s.mem.Set(k, v, ttlcache.DefaultTTL)
	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(s.key(k), data)
		if s.opts.TTL > 0 {
			e = e.WithTTL(s.opts.TTL)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes k from both tiers.
func (s *Store[V]) Delete(k string) error {
	s.mem.Delete(k)
	if s.db == nil {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(s.key(k))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Stats returns a snapshot of the counters.
func (s *Store[V]) Stats() Stats {
	return Stats{
		Hits:       s.hits.Load(),
		MemoryHits: s.memoryHits.Load(),
		Misses:     s.misses.Load(),
		Entries:    s.mem.Len(),
	}
}

// Close stops the memory tier's expiry loop. The badger database is owned
// by the caller.
func (s *Store[V]) Close() {
	s.mem.Stop()
}
