// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package app assembles the corpus store, the MAL client, the detail cache
// and the recommendation engine shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/mal"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/recommender"
	"github.com/tomtom215/animerec/internal/source"
)

// DetailCachePrefix namespaces MAL details inside the badger cache.
const DetailCachePrefix = "mal:details:"

// App holds the wired components. Close releases them.
type App struct {
	Config *config.Config

	// DB is nil when the corpus failed to open. CorpusErr holds the reason.
	DB        *database.DB
	CorpusErr error

	MAL     *mal.Client
	CacheDB *badger.DB
	Details *cache.Store[mal.AnimeDetails]
	Source  *source.Adapter
	Engine  *recommend.Engine
	Service *recommender.Service
}

// Option customizes New.
type Option func(*options)

type options struct {
	malOpts []mal.Option
	strict  bool
}

// WithMALOptions passes options to the MAL client.
func WithMALOptions(opts ...mal.Option) Option {
	return func(o *options) { o.malOpts = append(o.malOpts, opts...) }
}

// RequireCorpus makes New fail when the corpus cannot be opened instead
// of starting degraded.
func RequireCorpus() Option {
	return func(o *options) { o.strict = true }
}

// New wires the application. A corpus that fails to open leaves the app
// running degraded: every recommendation then fails with a source error
// while the animelist endpoint keeps working.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg}
	logger := logging.WithComponent("app")

	var store source.CorpusStore
	db, err := database.New(ctx, &cfg.Corpus)
	switch {
	case err == nil:
		a.DB = db
		store = db
	case o.strict:
		return nil, fmt.Errorf("open corpus: %w", err)
	default:
		logger.Error().Err(err).Str("source", cfg.Corpus.Source).Msg("Corpus unavailable, starting degraded")
		a.CorpusErr = err
		store = unavailableStore{err: err}
	}

	a.MAL = mal.NewClient(&cfg.MAL, o.malOpts...)

	srcOpts := []source.Option{source.WithEnrichment(cfg.MAL.Enrich)}
	if cfg.Cache.Enabled {
		cacheDB, err := cache.OpenDB(cfg.Cache.Path)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open detail cache: %w", err)
		}
		a.CacheDB = cacheDB
		a.Details = cache.NewStore[mal.AnimeDetails](cacheDB, cache.Options{
			Prefix:         DetailCachePrefix,
			TTL:            cfg.Cache.TTL,
			MemoryTTL:      cfg.Cache.MemoryTTL,
			MemoryCapacity: cfg.Cache.MemoryCapacity,
		})
		srcOpts = append(srcOpts, source.WithDetailCache(a.Details))
	}
	a.Source = source.New(store, a.MAL, srcOpts...)

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.Engine = engine
	a.Service = recommender.New(engine, a.Source)

	return a, nil
}

// Degraded reports whether the corpus failed to open.
func (a *App) Degraded() bool {
	return a.DB == nil
}

// CollectCacheGarbage runs one badger value log GC pass.
func (a *App) CollectCacheGarbage() (int, error) {
	if a.CacheDB == nil {
		return 0, nil
	}
	return cache.RunValueLogGC(a.CacheDB, a.Config.Cache.GCDiscardRatio)
}

// Close releases every component. It is safe on a partially built App.
func (a *App) Close() error {
	var errs []error
	if a.Details != nil {
		a.Details.Close()
	}
	if a.CacheDB != nil {
		if err := a.CacheDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detail cache: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close corpus: %w", err))
		}
	}
	return errors.Join(errs...)
}

// unavailableStore stands in for a corpus that could not be opened.
type unavailableStore struct {
	err error
}

func (s unavailableStore) Ratings(context.Context) ([]recommend.Rating, error) {
	return nil, s.err
}

func (s unavailableStore) Titles(context.Context, []int) (map[int]string, error) {
	return nil, s.err
}
