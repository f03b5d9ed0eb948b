// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"maps"
)

// ImputationPolicy decides what happens to target entries without an explicit score.
type ImputationPolicy string

const (
	// ImputeFromStatus synthesizes a score from the list status label.
	ImputeFromStatus ImputationPolicy = "status"

	// ImputeStrict drops every entry whose score is zero.
	ImputeStrict ImputationPolicy = "strict"
)

// PlaceholderStyle selects the label used when an item has no known title.
type PlaceholderStyle string

const (
	// PlaceholderEnriched renders "Anime {id}".
	PlaceholderEnriched PlaceholderStyle = "enriched"

	// PlaceholderPlain renders "Anime ID {id}".
	PlaceholderPlain PlaceholderStyle = "plain"
)

// Config contains every tunable of the pipeline.
type Config struct {
	// ActivityThreshold keeps historical users with strictly more positive
	// ratings than this value.
	ActivityThreshold int `json:"activity_threshold"`

	// Shrinkage is the beta in c / (c + beta), where c is the co-rated count.
	Shrinkage float64 `json:"shrinkage"`

	// Neighbors caps the neighborhood size (K).
	Neighbors int `json:"neighbors"`

	// MinSupport is the minimum number of valid neighbor contributions an
	// item needs before it is predicted.
	MinSupport int `json:"min_support"`

	// TopN is the number of recommendations returned.
	TopN int `json:"top_n"`

	// MinRating and MaxRating bound every prediction.
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`

	// Imputation is the zero-score policy for the target user.
	Imputation ImputationPolicy `json:"imputation"`

	// StatusScores maps a normalized status label to its synthetic score.
	// Only consulted when Imputation is ImputeFromStatus.
	StatusScores map[string]float64 `json:"status_scores"`

	// Placeholder selects the label for items without metadata.
	Placeholder PlaceholderStyle `json:"placeholder"`

	// AllowNegativeNeighbors keeps the raw cosine sign instead of clamping it
	// at zero. Negative weights are still excluded from the neighborhood, so
	// enabling this only changes the reported Similarity.Weight values.
	AllowNegativeNeighbors bool `json:"allow_negative_neighbors"`
}

// DefaultStatusScores returns the status to score mapping used for imputation.
func DefaultStatusScores() map[string]float64 {
	return map[string]float64{
		"completed":     9,
		"watching":      8,
		"plan_to_watch": 7,
		"on_hold":       5,
		"dropped":       3,
	}
}

// DefaultConfig returns the configuration of the enriched deployment:
// status imputation, a low activity threshold and single-neighbor support.
func DefaultConfig() *Config {
	return &Config{
		ActivityThreshold: 3,
		Shrinkage:         25.0,
		Neighbors:         100,
		MinSupport:        1,
		TopN:              10,
		MinRating:         1.0,
		MaxRating:         10.0,
		Imputation:        ImputeFromStatus,
		StatusScores:      DefaultStatusScores(),
		Placeholder:       PlaceholderEnriched,
	}
}

// StrictConfig returns the configuration of the CSV deployment: zero scores
// are dropped, users need more than 30 ratings and items need three supporters.
func StrictConfig() *Config {
	cfg := DefaultConfig()
	cfg.ActivityThreshold = 30
	cfg.MinSupport = 3
	cfg.Imputation = ImputeStrict
	cfg.Placeholder = PlaceholderPlain
	return cfg
}

// Validate checks that all parameters are usable.
func (c *Config) Validate() error {
	if c.ActivityThreshold < 0 {
		return fmt.Errorf("activity_threshold must be >= 0, got %d", c.ActivityThreshold)
	}
	if c.Shrinkage < 0 {
		return fmt.Errorf("shrinkage must be >= 0, got %f", c.Shrinkage)
	}
	if c.Neighbors <= 0 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.MinSupport <= 0 {
		return fmt.Errorf("min_support must be positive, got %d", c.MinSupport)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.MinRating <= 0 {
		return fmt.Errorf("min_rating must be positive, got %f", c.MinRating)
	}
	if c.MaxRating <= c.MinRating {
		return fmt.Errorf("max_rating (%f) must be greater than min_rating (%f)", c.MaxRating, c.MinRating)
	}

	switch c.Imputation {
	case ImputeFromStatus:
		for status, score := range c.StatusScores {
			if score < c.MinRating || score > c.MaxRating {
				return fmt.Errorf("status score for %q (%f) is outside [%f, %f]", status, score, c.MinRating, c.MaxRating)
			}
		}
	case ImputeStrict:
	default:
		return fmt.Errorf("imputation must be %q or %q, got %q", ImputeFromStatus, ImputeStrict, c.Imputation)
	}

	switch c.Placeholder {
	case PlaceholderEnriched, PlaceholderPlain:
	default:
		return fmt.Errorf("placeholder must be %q or %q, got %q", PlaceholderEnriched, PlaceholderPlain, c.Placeholder)
	}

	return nil
}

// Clone returns a deep copy so callers can adjust a shared configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.StatusScores = maps.Clone(c.StatusScores)
	return &clone
}
