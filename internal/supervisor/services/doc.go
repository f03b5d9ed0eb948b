// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package services adapts animerec's long-running components to
// suture.Service: the HTTP server, the detail cache's value log GC and the
// one-shot corpus preload.
package services
