// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/models"
)

// Recommender serves the two user-facing operations.
type Recommender interface {
	Recommend(ctx context.Context, username string) (*models.RecommendationsResponse, error)
	AnimeList(ctx context.Context, username string) (*models.AnimeListResponse, error)
}

// CorpusStatus reports on the corpus store for the health endpoint.
type CorpusStatus interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (models.CorpusStats, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health endpoint
//   - handlers_recommend.go: animelist and recommendations
//   - handlers_static.go: front-end files
type Handler struct {
	service      Recommender
	corpus       CorpusStatus
	config       *config.Config
	breakerState func() string
	version      string
	startTime    time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithBreakerState reports the MAL circuit breaker state on /api/health.
func WithBreakerState(fn func() string) HandlerOption {
	return func(h *Handler) { h.breakerState = fn }
}

// WithVersion sets the version reported on /api/health.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// NewHandler creates a new API handler. corpus may be nil when the store
// failed to open; health then reports it as unavailable.
func NewHandler(service Recommender, corpus CorpusStatus, cfg *config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		service:   service,
		corpus:    corpus,
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
