// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - NoCache: Cache-Control, Pragma and Expires headers that disable caching

Both are plain func(http.Handler) http.Handler values and plug straight into
chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Use(middleware.PrometheusMetrics)

Request ids, CORS and rate limiting come from chi and its companion modules
and are configured in internal/api.
*/
package middleware
