// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package api provides the HTTP surface of animerec using the Chi router.

Endpoints:

  - GET /api/health: corpus source, file paths and row counts
  - GET /api/animelist?username=: the user's flattened MAL list
  - GET /api/recommendations?username=: collaborative-filtering picks
  - GET /metrics: Prometheus metrics
  - GET / and /results.html: the static front end

The three /api routes are also mounted under /api/v1.

Response Format:

Every JSON response uses models.APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 12, "request_id": "..."}
	}

Errors carry "status": "error" and an error object with code, message and
optional details. A failed MAL call keeps MAL's HTTP status and puts the
upstream body in details. "No similar users" and "no predictable items" are
not failures: they answer 200 with an error code and an empty list.

Middleware:

Request id, real IP, panic recovery, no-cache headers, CORS and Prometheus
metrics apply to every route. The /api routes are additionally rate limited
per client IP with go-chi/httprate.
*/
package api
