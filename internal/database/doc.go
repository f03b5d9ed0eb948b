// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package database holds the historical rating corpus in DuckDB.

At startup New imports the snapshot into two tables:

	ratings(username VARCHAR, anime_id INTEGER, score DOUBLE)   -- score > 0 only
	anime_meta(anime_id INTEGER, title VARCHAR)

Sources:
  - sqlite: the animelists and anime_meta tables of a SQLite file, read
    through the sqlite_scanner extension with ATTACH ... (TYPE sqlite)
  - csv: read_csv_auto over the ratings CSV. The score column may be named
    score, rating or my_score. The metadata CSV is optional.

The tables are read-only afterwards, so concurrent readers need no locking.
Every statement reports to db_query_duration_seconds.
*/
package database
