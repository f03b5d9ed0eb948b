// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package main is the entry point for the Animerec server.

Animerec recommends anime to a MyAnimeList user with user-based
collaborative filtering: the user's live MAL list is compared against a
historical corpus of other users' lists held in DuckDB, and the scores of
the most similar users are aggregated into predictions.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("animerec")
	├── DataSupervisor ("data-layer")
	│   ├── Corpus preload (exits once the snapshot is loaded)
	│   └── Detail cache GC (badger value log)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Corpus: DuckDB import from the SQLite snapshot or the CSV files
 4. MAL client: retries with backoff behind a circuit breaker
 5. Detail cache: ttlcache in front of BadgerDB
 6. Supervisor tree and HTTP server

A corpus that fails to import does not stop the server. /api/health then
reports the database as unavailable and recommendations answer 502.

# Endpoints

	GET /                          index.html
	GET /results.html              results page
	GET /api/health                corpus and breaker status
	GET /api/animelist?username=   the user's MAL list
	GET /api/recommendations?username=
	GET /metrics                   Prometheus metrics

Every /api route is also served under /api/v1.

# Configuration

Common environment variables:

	CORPUS_SOURCE=sqlite|csv
	SQLITE_PATH=anime.db
	RATINGS_CSV=animelists_cleaned.csv
	MAL_ACCESS_TOKEN=...          (or MAL_TOKEN_FILE=token.json)
	RECOMMEND_PRESET=default|strict
	PORT=5022

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for server.shutdown_timeout before the corpus and the
cache are closed.
*/
package main
