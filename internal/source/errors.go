// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package source

import (
	"errors"
	"fmt"
)

// Operations reported in Error.Op.
const (
	OpCorpus    = "corpus"
	OpAnimeList = "animelist"
	OpMetadata  = "metadata"
)

// ErrUnavailable matches every Error.
var ErrUnavailable = errors.New("rating source unavailable")

// Error is a failure to obtain input data. It never wraps one of the
// pipeline's own errors.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) hold for any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}
