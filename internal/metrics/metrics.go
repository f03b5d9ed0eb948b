// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of DuckDB corpus queries in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// MyAnimeList Metrics
	MALRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mal_requests_total",
			Help: "Total number of MyAnimeList API calls",
		},
		[]string{"endpoint", "outcome"}, // outcome: "success", "client_error", "server_error", "rejected", "error"
	)

	MALRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mal_request_duration_seconds",
			Help:    "Duration of MyAnimeList API calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 12, 20},
		},
		[]string{"endpoint"},
	)

	MALRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mal_retries_total",
			Help: "Total number of retried MyAnimeList API calls",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_stage_duration_seconds",
			Help:    "Duration of each recommendation pipeline stage in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	PipelineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_outcomes_total",
			Help: "Total number of recommendation requests by result code",
		},
		[]string{"result"},
	)

	MatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_users",
			Help: "Number of users in the most recently built rating matrix",
		},
	)

	MatrixItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_items",
			Help: "Number of items in the most recently built rating matrix",
		},
	)

	NeighborhoodSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_neighborhood_size",
			Help:    "Number of neighbors selected per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	// Corpus Metrics
	CorpusRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_ratings",
			Help: "Number of positive ratings in the loaded corpus",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of detail cache hits",
		},
		[]string{"tier"}, // tier: "memory", "disk"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of detail cache misses",
		},
		[]string{"tier"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// MAL call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

// MALOutcome classifies an HTTP status. Zero means no response arrived.
func MALOutcome(statusCode int) string {
	switch {
	case statusCode == 0:
		return OutcomeError
	case statusCode >= 500:
		return OutcomeServerError
	case statusCode >= 400:
		return OutcomeClientError
	default:
		return OutcomeSuccess
	}
}

// RecordMALRequest records one MyAnimeList call.
func RecordMALRequest(endpoint, outcome string, duration time.Duration) {
	MALRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	MALRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Breaker state values for CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// RecordBreakerTransition records a circuit breaker state change.
// States are the lower-case gobreaker names.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	switch to {
	case "open":
		CircuitBreakerState.WithLabelValues(name).Set(BreakerOpen)
	case "half-open":
		CircuitBreakerState.WithLabelValues(name).Set(BreakerHalfOpen)
	default:
		CircuitBreakerState.WithLabelValues(name).Set(BreakerClosed)
	}
}

// RecordPipeline records the stage timings and the result code of one
// recommendation request.
func RecordPipeline(result string, stages map[string]time.Duration) {
	for stage, d := range stages {
		PipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
	PipelineOutcomes.WithLabelValues(result).Inc()
}

// RecordMatrix records the size of a built matrix and the neighborhood.
func RecordMatrix(users, items, neighbors int) {
	MatrixUsers.Set(float64(users))
	MatrixItems.Set(float64(items))
	NeighborhoodSize.Observe(float64(neighbors))
}

// RecordCacheLookup records a hit or miss on one cache tier.
func RecordCacheLookup(tier string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(tier).Inc()
		return
	}
	CacheMisses.WithLabelValues(tier).Inc()
}
