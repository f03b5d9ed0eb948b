// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"time"
)

// Rating is one (user, item, score) triple from the historical corpus.
// Only strictly positive scores participate in the matrix.
type Rating struct {
	UserID string  `json:"username"`
	ItemID int     `json:"anime_id"`
	Score  float64 `json:"score"`
}

// ListEntry is one raw entry from the target user's own list.
// UpdatedAt is carried for display and ignored by the pipeline.
type ListEntry struct {
	ItemID    int    `json:"id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Similarity is the comparison of the target with one other user.
type Similarity struct {
	UserID string

	// Cosine is the raw mean-centered cosine in [-1, 1].
	Cosine float64

	// CoRated is the number of items both users rated.
	CoRated int

	// Weight is the shrunk similarity used for neighborhood selection.
	Weight float64
}

// Neighbor is a member of the target's neighborhood.
type Neighbor struct {
	UserID string  `json:"user_id"`
	Weight float64 `json:"weight"`
}

// Prediction is a predicted rating for an item the target has not seen.
type Prediction struct {
	ItemID int     `json:"anime_id"`
	Score  float64 `json:"score"`

	// Support is the number of neighbors that contributed.
	Support int `json:"support"`
}

// Picture holds poster URLs.
type Picture struct {
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Genre is a named category.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ItemMetadata is the display information resolved for an item.
// Everything except Title is optional enrichment.
type ItemMetadata struct {
	Title        string
	Synopsis     string
	Mean         *float64
	Rating       string
	NumListUsers *int
	MediaType    string
	Genres       []Genre
	StartDate    string
	EndDate      string
	Picture      *Picture
}

// MetadataLookup resolves display metadata for a batch of items.
// Items missing from the returned map, or with an empty Title, are shown
// with a placeholder label. Implementations must not fail the request.
type MetadataLookup interface {
	Lookup(ctx context.Context, itemIDs []int) map[int]ItemMetadata
}

// Recommendation is a presented prediction.
type Recommendation struct {
	ItemID int     `json:"anime_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`

	// Metadata is nil when nothing beyond the title is known.
	Metadata *ItemMetadata `json:"-"`
}

// Request is the input of one pipeline run.
type Request struct {
	// Username identifies the target user inside the matrix.
	Username string

	// Entries is the target's raw list.
	Entries []ListEntry

	// Corpus is the historical snapshot. It is read, never modified.
	Corpus []Rating
}

// Result is the output of one pipeline run.
type Result struct {
	Username        string           `json:"username"`
	Recommendations []Recommendation `json:"recommendations"`
	Stats           Stats            `json:"stats"`
}

// Stats describes the shape of the computation.
type Stats struct {
	Users       int                      `json:"users"`
	Items       int                      `json:"items"`
	Seen        int                      `json:"seen"`
	Neighbors   int                      `json:"neighbors"`
	Predictions int                      `json:"predictions"`
	Stages      map[string]time.Duration `json:"-"`
	Latency     time.Duration            `json:"-"`
}

// Stage names, used for timings and metrics.
const (
	StageMatrix     = "matrix"
	StageSimilarity = "similarity"
	StageNeighbors  = "neighborhood"
	StagePredict    = "predict"
	StageRank       = "rank"
)
