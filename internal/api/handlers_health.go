// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/models"
)

const healthTimeout = 5 * time.Second

// Health reports the corpus source, its files and whether the store answers.
// It always returns 200; OK is false when the corpus store is unavailable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := &h.config.Corpus

	resp := models.HealthResponse{
		Source:   cfg.Source,
		Paths:    database.SourcePaths(cfg),
		Exists:   database.SourceExists(cfg),
		Port:     h.config.Server.Port,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Version:  h.version,
		Database: "unavailable",
	}
	if h.breakerState != nil {
		resp.Breaker = h.breakerState()
	}

	if h.corpus != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.corpus.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Corpus ping failed")
		} else {
			resp.OK = true
			resp.Database = "connected"
			if stats, err := h.corpus.Stats(ctx); err == nil {
				resp.Corpus = &stats
			}
		}
	}

	respondSuccess(w, resp, start)
}
