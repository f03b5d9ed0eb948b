// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine runs the recommendation pipeline. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	lookup MetadataLookup

	requestCount atomic.Int64
	emptyCount   atomic.Int64
	errorCount   atomic.Int64
}

// Metrics is a snapshot of engine counters.
type Metrics struct {
	Requests int64 `json:"requests"`
	Empty    int64 `json:"empty"`
	Errors   int64 `json:"errors"`
}

// NewEngine creates a recommendation engine. A nil config selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetMetadataLookup sets the title and enrichment source used by the presenter.
// Without one, every recommendation carries a placeholder title.
func (e *Engine) SetMetadataLookup(lookup MetadataLookup) {
	e.lookup = lookup
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Metrics returns the current counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		Requests: e.requestCount.Load(),
		Empty:    e.emptyCount.Load(),
		Errors:   e.errorCount.Load(),
	}
}

// Recommend runs every stage for one user. Expected empty outcomes are
// returned as ErrNoSimilarUsers or ErrNoPredictableItems; use IsEmptyResult
// to tell them apart from failures.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.Username == "" {
		e.errorCount.Add(1)
		return nil, errors.New("username is required")
	}

	logger := e.logger.With().Str("username", req.Username).Logger()
	logger.Debug().
		Int("entries", len(req.Entries)).
		Int("corpus", len(req.Corpus)).
		Msg("processing recommendation request")

	stats := Stats{Stages: make(map[string]time.Duration, 5)}
	stage := func(name string, began time.Time) {
		stats.Stages[name] = time.Since(began)
	}

	t := time.Now()
	m, seen, err := BuildMatrix(req.Corpus, req.Username, req.Entries, e.config)
	stage(StageMatrix, t)
	if err != nil {
		return nil, e.fail(logger, StageMatrix, err)
	}
	stats.Users = len(m.Users())
	stats.Items = len(m.Items())
	stats.Seen = seen.Cardinality()

	if err := ctx.Err(); err != nil {
		return nil, e.fail(logger, StageMatrix, err)
	}

	t = time.Now()
	sims := ComputeSimilarities(m, req.Username, e.config)
	stage(StageSimilarity, t)

	if err := ctx.Err(); err != nil {
		return nil, e.fail(logger, StageSimilarity, err)
	}

	t = time.Now()
	neighbors, err := SelectNeighbors(sims, e.config.Neighbors)
	stage(StageNeighbors, t)
	if err != nil {
		return nil, e.fail(logger, StageNeighbors, err)
	}
	stats.Neighbors = len(neighbors)

	t = time.Now()
	preds, err := PredictRatings(m, req.Username, seen, neighbors, e.config)
	stage(StagePredict, t)
	if err != nil {
		return nil, e.fail(logger, StagePredict, err)
	}
	stats.Predictions = len(preds)

	if err := ctx.Err(); err != nil {
		return nil, e.fail(logger, StagePredict, err)
	}

	t = time.Now()
	ranked := Rank(preds, e.config.TopN)
	recs := Present(ctx, ranked, e.lookup, e.config.Placeholder)
	stage(StageRank, t)

	stats.Latency = time.Since(start)

	logger.Debug().
		Int("users", stats.Users).
		Int("items", stats.Items).
		Int("neighbors", stats.Neighbors).
		Int("predictions", stats.Predictions).
		Int("returned", len(recs)).
		Int64("latency_ms", stats.Latency.Milliseconds()).
		Msg("recommendation complete")

	return &Result{
		Username:        req.Username,
		Recommendations: recs,
		Stats:           stats,
	}, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fail(logger zerolog.Logger, stage string, err error) error {
	switch {
	case IsEmptyResult(err):
		e.emptyCount.Add(1)
		logger.Info().Str("stage", stage).Err(err).Msg("no recommendations produced")
	case errors.Is(err, ErrUserMatrixInconsistency):
		e.errorCount.Add(1)
		logger.Error().Str("stage", stage).Err(err).Msg("target row missing after merge")
	case errors.Is(err, ErrNoRatableItems):
		e.emptyCount.Add(1)
		logger.Info().Str("stage", stage).Err(err).Msg("user has nothing to compare")
	default:
		e.errorCount.Add(1)
		logger.Warn().Str("stage", stage).Err(err).Msg("recommendation aborted")
	}
	return err
}
