// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// titleChunk bounds the number of placeholders in one IN list.
const titleChunk = 500

// Ratings returns every positive rating, ordered by user then item.
func (db *DB) Ratings(ctx context.Context) ([]recommend.Rating, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		"SELECT username, anime_id, score FROM "+TableRatings+" WHERE score > 0 ORDER BY username, anime_id")
	if err != nil {
		metrics.RecordDBQuery("select", TableRatings, time.Since(start), err)
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeQuietly(rows)

	var out []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Score); err != nil {
			metrics.RecordDBQuery("select", TableRatings, time.Since(start), err)
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", TableRatings, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// Titles returns the known titles for ids. Ids without a title are absent
// from the map.
func (db *DB) Titles(ctx context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	start := time.Now()
	var qerr error
	defer func() { metrics.RecordDBQuery("select", TableMetadata, time.Since(start), qerr) }()

	for _, chunk := range lo.Chunk(lo.Uniq(ids), titleChunk) {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := lo.Map(chunk, func(id int, _ int) interface{} { return id })

		rows, err := db.conn.QueryContext(ctx,
			"SELECT anime_id, title FROM "+TableMetadata+" WHERE anime_id IN ("+placeholders+")", args...)
		if err != nil {
			qerr = err
			return nil, fmt.Errorf("query titles: %w", err)
		}
		if err := scanTitles(rows, out); err != nil {
			qerr = err
			return nil, err
		}
	}
	return out, nil
}

func scanTitles(rows *sql.Rows, out map[int]string) error {
	defer closeQuietly(rows)
	for rows.Next() {
		var id int
		var title sql.NullString
		if err := rows.Scan(&id, &title); err != nil {
			return fmt.Errorf("scan title: %w", err)
		}
		if title.Valid && strings.TrimSpace(title.String) != "" {
			out[id] = title.String
		}
	}
	return rows.Err()
}

// Stats counts the imported rows.
func (db *DB) Stats(ctx context.Context) (models.CorpusStats, error) {
	var s models.CorpusStats

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT username), COUNT(DISTINCT anime_id) FROM "+TableRatings,
	).Scan(&s.Ratings, &s.Users, &s.Items)
	metrics.RecordDBQuery("count", TableRatings, time.Since(start), err)
	if err != nil {
		return s, fmt.Errorf("count ratings: %w", err)
	}

	start = time.Now()
	err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+TableMetadata).Scan(&s.Titles)
	metrics.RecordDBQuery("count", TableMetadata, time.Since(start), err)
	if err != nil {
		return s, fmt.Errorf("count titles: %w", err)
	}

	metrics.CorpusRatings.Set(float64(s.Ratings))
	return s, nil
}
