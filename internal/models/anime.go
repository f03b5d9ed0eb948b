// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package models

import (
	"fmt"
)

// MALAnimeURL is the public page of an anime.
func MALAnimeURL(animeID int) string {
	return fmt.Sprintf("https://myanimelist.net/anime/%d", animeID)
}

// AnimeListEntry is one flattened entry of a user's list.
type AnimeListEntry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// AnimeListResponse is returned by /api/animelist.
type AnimeListResponse struct {
	Username string           `json:"username"`
	Count    int              `json:"count"`
	List     []AnimeListEntry `json:"list"`
}

// Picture holds poster URLs.
type Picture struct {
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Genre is a MAL genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Recommendation is one presented item. Enrichment fields are null when
// the details lookup was disabled or failed.
type Recommendation struct {
	ID           int      `json:"id"`
	AnimeID      int      `json:"anime_id"`
	Title        string   `json:"title"`
	Score        float64  `json:"score"`
	Mean         *float64 `json:"mean"`
	Rating       *string  `json:"rating"`
	NumListUsers *int     `json:"num_list_users"`
	Synopsis     *string  `json:"synopsis"`
	MainPicture  *Picture `json:"main_picture"`
	MediaType    *string  `json:"media_type"`
	Genres       []Genre  `json:"genres"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	MALURL       string   `json:"mal_url"`
}

// PipelineStats summarizes the computation behind a response.
type PipelineStats struct {
	Users       int   `json:"users"`
	Items       int   `json:"items"`
	Seen        int   `json:"seen"`
	Neighbors   int   `json:"neighbors"`
	Predictions int   `json:"predictions"`
	LatencyMS   int64 `json:"latency_ms"`
}

// RecommendationsResponse is returned by /api/recommendations.
type RecommendationsResponse struct {
	Username        string           `json:"username"`
	Recommendations []Recommendation `json:"recommendations"`
	Stats           *PipelineStats   `json:"stats,omitempty"`
}

// HealthResponse is returned by /api/health.
type HealthResponse struct {
	OK       bool              `json:"ok"`
	Source   string            `json:"source"`
	Paths    map[string]string `json:"paths"`
	Exists   map[string]bool   `json:"exists"`
	Port     int               `json:"port"`
	Corpus   *CorpusStats      `json:"corpus,omitempty"`
	Breaker  string            `json:"mal_breaker,omitempty"`
	Uptime   string            `json:"uptime"`
	Version  string            `json:"version,omitempty"`
	Database string            `json:"database"`
}

// CorpusStats describes the loaded historical snapshot.
type CorpusStats struct {
	Ratings int `json:"ratings"`
	Users   int `json:"users"`
	Items   int `json:"items"`
	Titles  int `json:"titles"`
}
