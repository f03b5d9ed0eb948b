// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package models holds the JSON shapes returned by the HTTP API.
package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every API payload.
//
//	{
//	  "status": "success",
//	  "data": {"username": "someone", "recommendations": [...]},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "query_time_ms": 812}
//	}
//
// On failure Status is "error" and Error is set.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNoRatableItems    = "NO_RATABLE_ITEMS"
	ErrCodeMatrix            = "USER_MATRIX_INCONSISTENCY"
	ErrCodeNoSimilarUsers    = "NO_SIMILAR_USERS"
	ErrCodeNoPredictable     = "NO_PREDICTABLE_ITEMS"
	ErrCodeMALFailed         = "MAL_API_FAILED"
	ErrCodeCorpusUnavailable = "CORPUS_UNAVAILABLE"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
)
