// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/mal"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/source"
)

// Messages shown to API clients.
const (
	msgMissingUsername   = "Missing ?username=..."
	msgNoRatableItems    = "This user has no usable anime."
	msgMatrix            = "User not present in rating matrix."
	msgNoSimilarUsers    = "No similar users found."
	msgNoPredictable     = "No predictable unseen items."
	msgMALFailed         = "MAL API failed"
	msgMALUnavailable    = "MAL API temporarily unavailable"
	msgMALToken          = "MAL access token not configured"
	msgCorpusUnavailable = "Rating corpus unavailable"
	msgTimeout           = "Request timed out"
	msgInternal          = "Internal server error"
)

// mapError translates a service error into an HTTP status and error payload.
func mapError(err error) (int, *models.APIError) {
	var statusErr *mal.StatusError
	var srcErr *source.Error

	switch {
	case errors.Is(err, recommend.ErrNoRatableItems):
		return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeNoRatableItems, Message: msgNoRatableItems}
	case errors.Is(err, recommend.ErrUserMatrixInconsistency):
		return http.StatusInternalServerError, &models.APIError{Code: models.ErrCodeMatrix, Message: msgMatrix}
	case errors.Is(err, recommend.ErrNoSimilarUsers):
		return http.StatusOK, &models.APIError{Code: models.ErrCodeNoSimilarUsers, Message: msgNoSimilarUsers}
	case errors.Is(err, recommend.ErrNoPredictableItems):
		return http.StatusOK, &models.APIError{Code: models.ErrCodeNoPredictable, Message: msgNoPredictable}

	case errors.As(err, &statusErr):
		status := statusErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, &models.APIError{
			Code:    models.ErrCodeMALFailed,
			Message: msgMALFailed,
			Details: map[string]interface{}{
				"details":         statusErr.Body,
				"upstream_status": statusErr.StatusCode,
			},
		}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, &models.APIError{Code: models.ErrCodeMALFailed, Message: msgMALUnavailable}
	case errors.Is(err, mal.ErrNoToken):
		return http.StatusInternalServerError, &models.APIError{Code: models.ErrCodeMALFailed, Message: msgMALToken}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, &models.APIError{Code: models.ErrCodeTimeout, Message: msgTimeout}

	case errors.As(err, &srcErr) && srcErr.Op == source.OpCorpus:
		return http.StatusBadGateway, &models.APIError{Code: models.ErrCodeCorpusUnavailable, Message: msgCorpusUnavailable}
	case errors.As(err, &srcErr):
		return http.StatusBadGateway, &models.APIError{
			Code:    models.ErrCodeMALFailed,
			Message: msgMALFailed,
			Details: map[string]interface{}{"details": srcErr.Err.Error()},
		}
	}

	return http.StatusInternalServerError, &models.APIError{Code: models.ErrCodeInternal, Message: msgInternal}
}
