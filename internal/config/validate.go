// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/validation"
)

// Validate checks the tagged field rules and the cross-field constraints.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateCorpus,
		c.validateMAL,
		c.validateRecommend,
		c.validateCache,
		c.validateSecurity,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCorpus() error {
	switch c.Corpus.Source {
	case SourceSQLite:
		if strings.TrimSpace(c.Corpus.SQLitePath) == "" {
			return fmt.Errorf("corpus.sqlite_path is required when corpus.source is %s", SourceSQLite)
		}
	case SourceCSV:
		if strings.TrimSpace(c.Corpus.RatingsCSV) == "" {
			return fmt.Errorf("corpus.ratings_csv is required when corpus.source is %s", SourceCSV)
		}
	}
	return nil
}

func (c *Config) validateMAL() error {
	if err := validateHTTPURL(c.MAL.BaseURL, "mal.base_url"); err != nil {
		return err
	}
	if c.MAL.RequestTimeout <= 0 || c.MAL.DetailTimeout <= 0 {
		return fmt.Errorf("mal.request_timeout and mal.detail_timeout must be positive")
	}
	if c.MAL.PagePause < 0 {
		return fmt.Errorf("mal.page_pause must be >= 0, got %v", c.MAL.PagePause)
	}
	if c.MAL.MaxRetries > 0 && (c.MAL.RetryInitial <= 0 || c.MAL.RetryMax < c.MAL.RetryInitial) {
		return fmt.Errorf("mal.retry_initial must be positive and not above mal.retry_max")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 || c.Cache.MemoryTTL <= 0 {
		return fmt.Errorf("cache.ttl and cache.memory_ttl must be positive when the cache is enabled")
	}
	if c.Cache.GCDiscardRatio <= 0 || c.Cache.GCDiscardRatio >= 1 {
		return fmt.Errorf("cache.gc_discard_ratio must be in (0, 1), got %v", c.Cache.GCDiscardRatio)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

// EngineConfig converts the section into the pipeline configuration.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	scores := recommend.DefaultStatusScores()
	for status, score := range r.StatusScores {
		scores[recommend.NormalizeStatus(status)] = score
	}

	return &recommend.Config{
		ActivityThreshold:      r.ActivityThreshold,
		Shrinkage:              r.Shrinkage,
		Neighbors:              r.Neighbors,
		MinSupport:             r.MinSupport,
		TopN:                   r.TopN,
		MinRating:              r.MinRating,
		MaxRating:              r.MaxRating,
		Imputation:             recommend.ImputationPolicy(r.Imputation),
		StatusScores:           scores,
		Placeholder:            recommend.PlaceholderStyle(r.Placeholder),
		AllowNegativeNeighbors: r.AllowNegativeNeighbors,
	}
}

// validateHTTPURL checks for an http(s) URL with a host and no query string.
// A path is allowed because the MAL base URL carries its API version.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
