// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:5022/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Requests by method, endpoint and status_code (counter)
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Requests rejected by httprate (counter)

MyAnimeList Metrics:
  - mal_requests_total: Calls by endpoint and outcome (counter)
  - mal_request_duration_seconds: Call latency including retries (histogram)
  - mal_retries_total: Retried calls (counter)
  - circuit_breaker_state, circuit_breaker_requests_total and
    circuit_breaker_state_transitions_total for the MAL breaker

Pipeline Metrics:
  - recommend_stage_duration_seconds: Per-stage latency (histogram)
    Labels: stage (matrix, similarity, neighborhood, predict, rank)
  - recommend_outcomes_total: Requests by result code (counter)
  - recommend_matrix_users, recommend_matrix_items: Last matrix size (gauge)
  - recommend_neighborhood_size: Neighbors per request (histogram)

Storage Metrics:
  - db_query_duration_seconds and db_query_errors_total for DuckDB
  - corpus_ratings: Loaded corpus size (gauge)
  - cache_hits_total, cache_misses_total by tier (memory, disk)

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)

Label values are bounded: endpoints are route patterns, never raw paths,
and error types are truncated to 50 characters.
*/
package metrics
