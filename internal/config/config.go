// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package config loads the application configuration.
//
// Sources, lowest priority first:
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file, from CONFIG_PATH or DefaultConfigPaths
//  3. Environment variables listed in envMappings
//
// A recommend.preset of "strict" swaps in the CSV deployment profile for
// every key the file and environment leave unset.
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	MAL       MALConfig       `koanf:"mal"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// StaticDir holds index.html and results.html.
	StaticDir string `koanf:"static_dir"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RequestTimeout bounds one recommendation request, including every MAL call.
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Corpus sources.
const (
	SourceSQLite = "sqlite"
	SourceCSV    = "csv"
)

// CorpusConfig points at the historical rating snapshot.
type CorpusConfig struct {
	// Source is "sqlite" (animelists and anime_meta tables) or "csv".
	Source string `koanf:"source" validate:"oneof=sqlite csv"`

	SQLitePath  string `koanf:"sqlite_path"`
	RatingsCSV  string `koanf:"ratings_csv"`
	MetadataCSV string `koanf:"metadata_csv"`

	// DuckDBPath is empty for an in-memory database.
	DuckDBPath string `koanf:"duckdb_path"`
	MaxMemory  string `koanf:"max_memory"`
	Threads    int    `koanf:"threads" validate:"min=0"`
}

// MALConfig configures the MyAnimeList API client.
type MALConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,http_url"`

	// AccessToken wins over TokenFile when both are set.
	AccessToken string `koanf:"access_token"`
	TokenFile   string `koanf:"token_file"`

	PageLimit      int           `koanf:"page_limit" validate:"min=1,max=1000"`
	PagePause      time.Duration `koanf:"page_pause"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	DetailTimeout  time.Duration `koanf:"detail_timeout"`

	MaxRetries   int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryInitial time.Duration `koanf:"retry_initial"`
	RetryMax     time.Duration `koanf:"retry_max"`

	// Enrich fetches per-item details for recommendations.
	Enrich bool `koanf:"enrich"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
}

// Presets for the recommend section.
const (
	PresetDefault = "default"
	PresetStrict  = "strict"
)

// RecommendConfig mirrors recommend.Config.
type RecommendConfig struct {
	Preset string `koanf:"preset" validate:"oneof=default strict"`

	ActivityThreshold      int                `koanf:"activity_threshold"`
	Shrinkage              float64            `koanf:"shrinkage"`
	Neighbors              int                `koanf:"neighbors"`
	MinSupport             int                `koanf:"min_support"`
	TopN                   int                `koanf:"top_n"`
	MinRating              float64            `koanf:"min_rating"`
	MaxRating              float64            `koanf:"max_rating"`
	Imputation             string             `koanf:"imputation"`
	Placeholder            string             `koanf:"placeholder"`
	AllowNegativeNeighbors bool               `koanf:"allow_negative_neighbors"`
	StatusScores           map[string]float64 `koanf:"status_scores"`
}

// CacheConfig configures the MAL detail cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the badger directory. Empty keeps badger in memory.
	Path string        `koanf:"path"`
	TTL  time.Duration `koanf:"ttl"`

	MemoryTTL      time.Duration `koanf:"memory_ttl"`
	MemoryCapacity uint64        `koanf:"memory_capacity"`

	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads the configuration from every source and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
