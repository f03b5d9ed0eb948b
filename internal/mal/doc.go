// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package mal is a client for the MyAnimeList v2 API.

Two endpoints are used:
  - GET /users/{name}/animelist, paged until paging.next is absent
  - GET /anime/{id}, for recommendation details

Resilience:
  - A rate.Limiter spaces every call by mal.page_pause
  - Retries with exponential backoff on 429 and 5xx, honoring Retry-After
  - A gobreaker circuit breaker named "mal-api" that ignores 4xx answers

Non-200 answers surface as *StatusError carrying the upstream status and
up to 64KB of body, so the HTTP layer can pass both through.

The bearer token comes from mal.access_token or from the "access_token"
field of mal.token_file. The file is re-read at most every five minutes.
*/
package mal
