// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/logging"
)

// ValueLogCollector runs one round of value log garbage collection and
// reports how many files were rewritten.
type ValueLogCollector func() (int, error)

// CacheGCService periodically reclaims space in the badger detail cache.
// Expired entries only free disk space once their value log file is
// rewritten, which badger leaves to the application.
type CacheGCService struct {
	collect  ValueLogCollector
	interval time.Duration
	name     string
	logger   zerolog.Logger
}

// NewCacheGCService creates the service. A non-positive interval defaults
// to one hour.
func NewCacheGCService(collect ValueLogCollector, interval time.Duration) *CacheGCService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CacheGCService{
		collect:  collect,
		interval: interval,
		name:     "cache-gc",
		logger:   logging.WithComponent("cache-gc"),
	}
}

// Serve implements suture.Service. GC errors are logged and do not stop
// the service.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *CacheGCService) runOnce() {
	start := time.Now()
	rewritten, err := s.collect()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Value log GC failed")
		return
	}
	s.logger.Debug().
		Int("rewritten", rewritten).
		Dur("duration", time.Since(start)).
		Msg("Value log GC complete")
}

// String implements fmt.Stringer.
func (s *CacheGCService) String() string {
	return s.name
}
