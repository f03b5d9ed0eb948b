// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/animerec/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())      // X-Request-ID header and logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(RequestLogging())            // One debug line per request
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(middleware.NoCache)          // Every response is uncacheable
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	// ========================
	// API Endpoints
	// ========================
	// Served both unversioned, as the front end calls them, and under /api/v1.
	// Both mounts share one limiter.
	rateLimit := router.chiMiddleware.RateLimitByRealIP()
	api := func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(APISecurityHeaders())

		r.Get("/health", router.handler.Health)
		r.Get("/animelist", router.handler.AnimeList)
		r.Get("/recommendations", router.handler.Recommendations)
	}
	r.Route("/api/v1", api)
	r.Route("/api", api)

	// ========================
	// Metrics
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Front End
	// ========================
	r.Get("/", router.handler.Index)
	r.Get("/results.html", router.handler.Results)
	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
