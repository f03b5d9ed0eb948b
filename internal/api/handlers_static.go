// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/animerec/internal/models"
)

// Index serves index.html from the static directory.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, "index.html")
}

// Results serves results.html from the static directory.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, "results.html")
}

// NotFound serves any other file of the static directory at the site root.
// Unknown /api paths get a JSON 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Not found", nil)
		return
	}
	h.serveStatic(w, r, strings.TrimPrefix(r.URL.Path, "/"))
}

func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request, name string) {
	root := h.config.Server.StaticDir
	clean := filepath.Clean("/" + name)
	path := filepath.Join(root, filepath.FromSlash(clean))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
