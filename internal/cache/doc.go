// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package cache provides the MAL detail cache.

A Store has two tiers:
  - memory: a jellydator/ttlcache bounded by cache.memory_capacity
  - disk: badger entries with a TTL, JSON encoded with goccy/go-json

A disk hit is promoted to memory. Both tiers report hits and misses to the
cache_hits_total and cache_misses_total metrics.

Usage:

	db, err := cache.OpenDB(cfg.Cache.Path)
	details := cache.NewStore[mal.AnimeDetails](db, cache.Options{
	    Prefix:    "anime:",
	    TTL:       24 * time.Hour,
	    MemoryTTL: 10 * time.Minute,
	})
	defer details.Close()

Only MAL responses are cached. Matrices and similarities are rebuilt for
every request.
*/
package cache
