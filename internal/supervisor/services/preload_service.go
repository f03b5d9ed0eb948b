// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
)

// CorpusLoader returns the rating corpus, loading it on first use.
type CorpusLoader interface {
	Corpus(ctx context.Context) ([]recommend.Rating, error)
}

// CorpusPreloadService warms the corpus snapshot at startup so the first
// recommendation request does not pay for the load. A failure is returned
// to suture, which retries with backoff; success ends the service.
type CorpusPreloadService struct {
	loader CorpusLoader
	name   string
	logger zerolog.Logger
}

// NewCorpusPreloadService creates the service.
func NewCorpusPreloadService(loader CorpusLoader) *CorpusPreloadService {
	return &CorpusPreloadService{
		loader: loader,
		name:   "corpus-preload",
		logger: logging.WithComponent("preload"),
	}
}

// Serve implements suture.Service.
func (s *CorpusPreloadService) Serve(ctx context.Context) error {
	start := time.Now()
	ratings, err := s.loader.Corpus(ctx)
	if err != nil {
		return fmt.Errorf("corpus preload: %w", err)
	}
	s.logger.Info().
		Int("ratings", len(ratings)).
		Dur("duration", time.Since(start)).
		Msg("Corpus preloaded")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *CorpusPreloadService) String() string {
	return s.name
}
