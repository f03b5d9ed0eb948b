// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package recommender runs one recommendation request end to end: it pulls
// the user's list and the corpus from the rating source, runs the engine and
// shapes the result for the API and the CLI.
package recommender

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/source"
)

// Result codes recorded on the pipeline outcome counter.
const (
	ResultOK                 = "ok"
	ResultNoRatableItems     = "no_ratable_items"
	ResultMatrixInconsistent = "user_matrix_inconsistency"
	ResultNoSimilarUsers     = "no_similar_users"
	ResultNoPredictableItems = "no_predictable_items"
	ResultSourceError        = "source_error"
	ResultCanceled           = "canceled"
	ResultError              = "error"
)

// Source provides the pipeline inputs.
type Source interface {
	Corpus(ctx context.Context) ([]recommend.Rating, error)
	UserEntries(ctx context.Context, username string) ([]recommend.ListEntry, error)
	AnimeList(ctx context.Context, username string) ([]models.AnimeListEntry, error)
}

// Service wires a rating source to an engine.
type Service struct {
	engine *recommend.Engine
	source Source
	logger zerolog.Logger
}

// New creates a service. When src also implements recommend.MetadataLookup
// it becomes the engine's lookup.
func New(engine *recommend.Engine, src Source) *Service {
	if lookup, ok := src.(recommend.MetadataLookup); ok {
		engine.SetMetadataLookup(lookup)
	}
	return &Service{
		engine: engine,
		source: src,
		logger: logging.WithComponent("recommender"),
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *recommend.Engine {
	return s.engine
}

// Recommend produces recommendations for username. Errors are either source
// errors (errors.Is(err, source.ErrUnavailable)) or the engine's own outcomes.
func (s *Service) Recommend(ctx context.Context, username string) (*models.RecommendationsResponse, error) {
	start := time.Now()
	logger := logging.Ctx(ctx).With().Str("username", username).Logger()

	entries, err := s.source.UserEntries(ctx, username)
	if err != nil {
		return nil, s.fail(logger, err)
	}
	corpus, err := s.source.Corpus(ctx)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	res, err := s.engine.Recommend(ctx, recommend.Request{
		Username: username,
		Entries:  entries,
		Corpus:   corpus,
	})
	if err != nil {
		return nil, s.fail(logger, err)
	}

	metrics.RecordPipeline(ResultOK, res.Stats.Stages)
	metrics.RecordMatrix(res.Stats.Users, res.Stats.Items, res.Stats.Neighbors)

	logger.Info().
		Int("entries", len(entries)).
		Int("returned", len(res.Recommendations)).
		Dur("total", time.Since(start)).
		Msg("Recommendations served")

	return ToResponse(res), nil
}

// AnimeList returns the user's flattened MAL list.
func (s *Service) AnimeList(ctx context.Context, username string) (*models.AnimeListResponse, error) {
	list, err := s.source.AnimeList(ctx, username)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.AnimeListEntry{}
	}
	return &models.AnimeListResponse{Username: username, Count: len(list), List: list}, nil
}

func (s *Service) fail(logger zerolog.Logger, err error) error {
	code := ResultCode(err)
	metrics.RecordPipeline(code, nil)
	if code == ResultSourceError {
		logger.Warn().Err(err).Msg("Rating source failed")
	}
	return err
}

// ResultCode classifies the outcome of a request.
func ResultCode(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, recommend.ErrNoRatableItems):
		return ResultNoRatableItems
	case errors.Is(err, recommend.ErrUserMatrixInconsistency):
		return ResultMatrixInconsistent
	case errors.Is(err, recommend.ErrNoSimilarUsers):
		return ResultNoSimilarUsers
	case errors.Is(err, recommend.ErrNoPredictableItems):
		return ResultNoPredictableItems
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	case errors.Is(err, source.ErrUnavailable):
		return ResultSourceError
	default:
		return ResultError
	}
}

// ToResponse converts an engine result into its API form.
func ToResponse(res *recommend.Result) *models.RecommendationsResponse {
	recs := lo.Map(res.Recommendations, func(r recommend.Recommendation, _ int) models.Recommendation {
		return toRecommendation(r)
	})
	return &models.RecommendationsResponse{
		Username:        res.Username,
		Recommendations: recs,
		Stats: &models.PipelineStats{
			Users:       res.Stats.Users,
			Items:       res.Stats.Items,
			Seen:        res.Stats.Seen,
			Neighbors:   res.Stats.Neighbors,
			Predictions: res.Stats.Predictions,
			LatencyMS:   res.Stats.Latency.Milliseconds(),
		},
	}
}

func toRecommendation(r recommend.Recommendation) models.Recommendation {
	out := models.Recommendation{
		ID:      r.ItemID,
		AnimeID: r.ItemID,
		Title:   r.Title,
		Score:   r.Score,
		MALURL:  models.MALAnimeURL(r.ItemID),
	}
	md := r.Metadata
	if md == nil {
		return out
	}
	out.Mean = md.Mean
	out.NumListUsers = md.NumListUsers
	out.Rating = optional(md.Rating)
	out.Synopsis = optional(md.Synopsis)
	out.MediaType = optional(md.MediaType)
	out.StartDate = optional(md.StartDate)
	out.EndDate = optional(md.EndDate)
	if md.Picture != nil {
		out.MainPicture = &models.Picture{Medium: md.Picture.Medium, Large: md.Picture.Large}
	}
	if len(md.Genres) > 0 {
		out.Genres = lo.Map(md.Genres, func(g recommend.Genre, _ int) models.Genre {
			return models.Genre{ID: g.ID, Name: g.Name}
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
