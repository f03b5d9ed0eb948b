// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// UsernameQuery is the query string of the user endpoints.
type UsernameQuery struct {
	Username string `validate:"required,malusername"`
}

// parseUsername reads ?username= and writes the 400 response itself when it
// is missing or malformed.
func parseUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := UsernameQuery{Username: strings.TrimSpace(r.URL.Query().Get("username"))}
	if q.Username == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, msgMissingUsername, nil)
		return "", false
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil, nil)
		return "", false
	}
	return q.Username, true
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if d := h.config.Server.RequestTimeout; d > 0 {
		return context.WithTimeout(r.Context(), d)
	}
	return context.WithCancel(r.Context())
}

// AnimeList handles GET /api/animelist?username=
// Returns the user's flattened MAL list.
func (h *Handler) AnimeList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	username, ok := parseUsername(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	list, err := h.service.AnimeList(ctx, username)
	if err != nil {
		status, apiErr := mapError(err)
		respondAPIError(w, status, apiErr, nil, err)
		return
	}
	respondSuccess(w, list, start)
}

// Recommendations handles GET /api/recommendations?username=
// Expected empty outcomes are answered with 200, an error code and an empty
// recommendation list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	username, ok := parseUsername(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.service.Recommend(ctx, username)
	if err != nil {
		status, apiErr := mapError(err)
		var data interface{}
		if recommend.IsEmptyResult(err) {
			data = &models.RecommendationsResponse{Username: username, Recommendations: []models.Recommendation{}}
			err = nil
		}
		respondAPIError(w, status, apiErr, data, err)
		return
	}
	respondSuccess(w, resp, start)
}
