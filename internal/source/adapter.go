// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package source adapts the corpus store and the MAL client to the
// recommendation pipeline.
package source

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/mal"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// CorpusStore serves the historical snapshot.
type CorpusStore interface {
	Ratings(ctx context.Context) ([]recommend.Rating, error)
	Titles(ctx context.Context, ids []int) (map[int]string, error)
}

// ListClient fetches live data from MAL.
type ListClient interface {
	AnimeList(ctx context.Context, username string) ([]models.AnimeListEntry, error)
	AnimeDetails(ctx context.Context, id int) (*mal.AnimeDetails, error)
}

// DetailCache stores MAL details between requests.
type DetailCache interface {
	Get(key string) (mal.AnimeDetails, bool)
	Set(key string, v mal.AnimeDetails) error
}

// Adapter implements the pipeline's inputs and its metadata lookup.
// Safe for concurrent use.
type Adapter struct {
	store  CorpusStore
	client ListClient
	cache  DetailCache
	enrich bool
	logger zerolog.Logger

	mu     sync.Mutex
	corpus []recommend.Rating
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithDetailCache caches MAL details. Without it every lookup hits MAL.
func WithDetailCache(c DetailCache) Option {
	return func(a *Adapter) { a.cache = c }
}

// WithEnrichment turns on per-item MAL detail lookups.
func WithEnrichment(enabled bool) Option {
	return func(a *Adapter) { a.enrich = enabled }
}

// New creates an adapter.
func New(store CorpusStore, client ListClient, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		client: client,
		logger: logging.WithComponent("source"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Corpus returns the historical positive ratings. The snapshot is loaded
// once and shared read-only by every request; a failed load is retried
// on the next call.
func (a *Adapter) Corpus(ctx context.Context) ([]recommend.Rating, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.corpus != nil {
		return a.corpus, nil
	}
	ratings, err := a.store.Ratings(ctx)
	if err != nil {
		return nil, &Error{Op: OpCorpus, Err: err}
	}
	if ratings == nil {
		ratings = []recommend.Rating{}
	}
	a.corpus = ratings
	return a.corpus, nil
}

// AnimeList returns the user's flattened MAL list.
func (a *Adapter) AnimeList(ctx context.Context, username string) ([]models.AnimeListEntry, error) {
	list, err := a.client.AnimeList(ctx, username)
	if err != nil {
		return nil, &Error{Op: OpAnimeList, Err: err}
	}
	return list, nil
}

// UserEntries returns the user's list in pipeline form.
func (a *Adapter) UserEntries(ctx context.Context, username string) ([]recommend.ListEntry, error) {
	list, err := a.AnimeList(ctx, username)
	if err != nil {
		return nil, err
	}
	return ToListEntries(list), nil
}

// ToListEntries converts flattened MAL entries to pipeline entries.
func ToListEntries(list []models.AnimeListEntry) []recommend.ListEntry {
	return lo.Map(list, func(e models.AnimeListEntry, _ int) recommend.ListEntry {
		return recommend.ListEntry{
			ItemID:    e.ID,
			Title:     e.Title,
			Score:     e.Score,
			Status:    e.Status,
			UpdatedAt: e.UpdatedAt,
		}
	})
}

// Lookup resolves titles from the corpus metadata table and, with
// enrichment on, details from MAL through the cache. A MAL title wins
// over the corpus title. Lookup never fails; missing data is logged and
// left to the placeholder.
func (a *Adapter) Lookup(ctx context.Context, itemIDs []int) map[int]recommend.ItemMetadata {
	out := make(map[int]recommend.ItemMetadata, len(itemIDs))

	titles, err := a.store.Titles(ctx, itemIDs)
	if err != nil {
		a.logger.Warn().Err(&Error{Op: OpMetadata, Err: err}).Msg("title lookup failed")
	}
	for id, title := range titles {
		out[id] = recommend.ItemMetadata{Title: title}
	}

	if !a.enrich {
		return out
	}

	for _, id := range itemIDs {
		if ctx.Err() != nil {
			a.logger.Debug().Err(ctx.Err()).Msg("enrichment stopped")
			break
		}
		d, ok := a.details(ctx, id)
		if !ok {
			continue
		}
		md := toMetadata(d)
		if md.Title == "" {
			md.Title = out[id].Title
		}
		out[id] = md
	}
	return out
}

func (a *Adapter) details(ctx context.Context, id int) (mal.AnimeDetails, bool) {
	key := strconv.Itoa(id)
	if a.cache != nil {
		if d, ok := a.cache.Get(key); ok {
			return d, true
		}
	}

	d, err := a.client.AnimeDetails(ctx, id)
	if err != nil {
		a.logger.Debug().Err(err).Int("anime_id", id).Msg("detail lookup failed")
		return mal.AnimeDetails{}, false
	}
	if a.cache != nil {
		if err := a.cache.Set(key, *d); err != nil {
			a.logger.Warn().Err(err).Int("anime_id", id).Msg("detail cache write failed")
		}
	}
	return *d, true
}

func toMetadata(d mal.AnimeDetails) recommend.ItemMetadata {
	md := recommend.ItemMetadata{
		Title:        d.Title,
		Synopsis:     d.Synopsis,
		Mean:         d.Mean,
		Rating:       d.Rating,
		NumListUsers: d.NumListUsers,
		MediaType:    d.MediaType,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Genres: lo.Map(d.Genres, func(g models.Genre, _ int) recommend.Genre {
			return recommend.Genre{ID: g.ID, Name: g.Name}
		}),
	}
	if d.MainPicture != nil {
		md.Picture = &recommend.Picture{Medium: d.MainPicture.Medium, Large: d.MainPicture.Large}
	}
	return md
}
