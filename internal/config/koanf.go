// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/animerec/internal/recommend"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animerec/config.yaml",
	"/etc/animerec/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	rec := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5022,
			StaticDir:       "static",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Corpus: CorpusConfig{
			Source:      SourceSQLite,
			SQLitePath:  "anime.db",
			RatingsCSV:  "animelists_cleaned.csv",
			MetadataCSV: "anime_cleaned.csv",
			DuckDBPath:  "",
			MaxMemory:   "1GB",
		},
		MAL: MALConfig{
			BaseURL:             "https://api.myanimelist.net/v2",
			TokenFile:           "token.json",
			PageLimit:           100,
			PagePause:           250 * time.Millisecond,
			RequestTimeout:      20 * time.Second,
			DetailTimeout:       12 * time.Second,
			MaxRetries:          3,
			RetryInitial:        500 * time.Millisecond,
			RetryMax:            10 * time.Second,
			Enrich:              true,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
		},
		Recommend: RecommendConfig{
			Preset:                 PresetDefault,
			ActivityThreshold:      rec.ActivityThreshold,
			Shrinkage:              rec.Shrinkage,
			Neighbors:              rec.Neighbors,
			MinSupport:             rec.MinSupport,
			TopN:                   rec.TopN,
			MinRating:              rec.MinRating,
			MaxRating:              rec.MaxRating,
			Imputation:             string(rec.Imputation),
			Placeholder:            string(rec.Placeholder),
			AllowNegativeNeighbors: rec.AllowNegativeNeighbors,
			StatusScores:           rec.StatusScores,
		},
		Cache: CacheConfig{
			Enabled:        true,
			Path:           "",
			TTL:            24 * time.Hour,
			MemoryTTL:      10 * time.Minute,
			MemoryCapacity: 5000,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
	}
}

// strictPreset is the CSV deployment profile. Keys set explicitly in the
// file or environment still win.
var strictPreset = map[string]interface{}{
	"corpus.source":                SourceCSV,
	"recommend.activity_threshold": 30,
	"recommend.min_support":        3,
	"recommend.imputation":         string(recommend.ImputeStrict),
	"recommend.placeholder":        string(recommend.PlaceholderPlain),
	"mal.enrich":                   false,
	"server.port":                  5002,
}

// LoadWithKoanf loads defaults, then the config file, then the environment.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// File and environment go into their own instance so the preset can
	// tell which keys were set on purpose.
	user := koanf.New(".")

	if configPath := findConfigFile(); configPath != "" {
		if err := user.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// RECOMMEND_MIN_SUPPORT -> recommend.min_support
	if err := user.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(user); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	if err := applyPreset(k, user.String("recommend.preset")); err != nil {
		return nil, err
	}

	if err := k.Merge(user); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyPreset(k *koanf.Koanf, preset string) error {
	switch preset {
	case "", PresetDefault:
		return nil
	case PresetStrict:
		for key, val := range strictPreset {
			if err := k.Set(key, val); err != nil {
				return fmt.Errorf("failed to apply preset %s: %w", key, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown recommend.preset %q", preset)
	}
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":                "server.host",
	"http_port":                "server.port",
	"port":                     "server.port",
	"static_dir":               "server.static_dir",
	"http_read_timeout":        "server.read_timeout",
	"http_write_timeout":       "server.write_timeout",
	"request_timeout":          "server.request_timeout",
	"shutdown_timeout":         "server.shutdown_timeout",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
	"corpus_source":            "corpus.source",
	"sqlite_path":              "corpus.sqlite_path",
	"ratings_csv":              "corpus.ratings_csv",
	"metadata_csv":             "corpus.metadata_csv",
	"duckdb_path":              "corpus.duckdb_path",
	"duckdb_max_memory":        "corpus.max_memory",
	"duckdb_threads":           "corpus.threads",
	"mal_base_url":             "mal.base_url",
	"mal_access_token":         "mal.access_token",
	"mal_token_file":           "mal.token_file",
	"mal_page_limit":           "mal.page_limit",
	"mal_page_pause":           "mal.page_pause",
	"mal_request_timeout":      "mal.request_timeout",
	"mal_detail_timeout":       "mal.detail_timeout",
	"mal_max_retries":          "mal.max_retries",
	"mal_retry_initial":        "mal.retry_initial",
	"mal_retry_max":            "mal.retry_max",
	"mal_enrich":               "mal.enrich",
	"mal_breaker_max_reqs":     "mal.breaker_max_requests",
	"mal_breaker_interval":     "mal.breaker_interval",
	"mal_breaker_timeout":      "mal.breaker_timeout",
	"mal_breaker_min_reqs":     "mal.breaker_min_requests",
	"mal_breaker_fail_ratio":   "mal.breaker_failure_ratio",
	"recommend_preset":         "recommend.preset",
	"recommend_activity":       "recommend.activity_threshold",
	"recommend_shrinkage":      "recommend.shrinkage",
	"recommend_neighbors":      "recommend.neighbors",
	"recommend_min_support":    "recommend.min_support",
	"recommend_top_n":          "recommend.top_n",
	"recommend_min_rating":     "recommend.min_rating",
	"recommend_max_rating":     "recommend.max_rating",
	"recommend_imputation":     "recommend.imputation",
	"recommend_placeholder":    "recommend.placeholder",
	"recommend_allow_negative": "recommend.allow_negative_neighbors",
	"cache_enabled":            "cache.enabled",
	"cache_path":               "cache.path",
	"cache_ttl":                "cache.ttl",
	"cache_memory_ttl":         "cache.memory_ttl",
	"cache_memory_capacity":    "cache.memory_capacity",
	"cache_gc_interval":        "cache.gc_interval",
	"cors_origins":             "security.cors_origins",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
}

// envTransformFunc maps known environment variables to config keys.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
