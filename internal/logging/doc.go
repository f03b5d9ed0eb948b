// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package logging provides the process-wide zerolog logger.
//
// Initialize once from main:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Components take a child logger instead of the global one:
//
//	logger := logging.WithComponent("mal")
//	logger.Warn().Int("status", code).Msg("rate limited")
//
// Request handlers use Ctx so that the request id set by the HTTP middleware
// is attached to every event:
//
//	logging.Ctx(r.Context()).Info().Str("username", name).Msg("recommendations served")
//
// NewSlogLogger adapts the logger for libraries that log through log/slog,
// such as the suture supervisor hooks.
//
// Always finish an event with Msg or Send, otherwise nothing is written.
package logging
