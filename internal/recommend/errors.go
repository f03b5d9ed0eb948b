// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import "errors"

// Expected pipeline outcomes. None of them indicates a crash; callers map
// them to a structured "could not produce recommendations" result.
var (
	// ErrNoRatableItems means the target has no rated or imputed entries left
	// after the zero-score policy.
	ErrNoRatableItems = errors.New("user has no ratable items")

	// ErrUserMatrixInconsistency means the target row is missing from the
	// built matrix even though ratable entries existed.
	ErrUserMatrixInconsistency = errors.New("user not present in rating matrix")

	// ErrNoSimilarUsers means no other user has a positive shrunk similarity.
	ErrNoSimilarUsers = errors.New("no similar users found")

	// ErrNoPredictableItems means no unseen item met the support threshold.
	ErrNoPredictableItems = errors.New("no predictable unseen items")
)

// IsEmptyResult reports whether err is one of the outcomes that should be
// shown as an empty recommendation list rather than a failure.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrNoSimilarUsers) || errors.Is(err, ErrNoPredictableItems)
}

// IsPipelineError reports whether err is any of the expected pipeline outcomes.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrNoRatableItems) ||
		errors.Is(err, ErrUserMatrixInconsistency) ||
		IsEmptyResult(err)
}
