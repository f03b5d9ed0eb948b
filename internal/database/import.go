// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
)

// scoreColumns are the accepted names of the score column in a ratings
// CSV, in order of preference.
var scoreColumns = []string{"score", "rating", "my_score"}

func (db *DB) importCorpus(ctx context.Context) error {
	switch db.cfg.Source {
	case config.SourceSQLite:
		return db.importSQLite(ctx)
	case config.SourceCSV:
		return db.importCSV(ctx)
	default:
		return fmt.Errorf("unknown corpus source %q", db.cfg.Source)
	}
}

func (db *DB) exec(ctx context.Context, operation, table, query string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query)
	elapsed := time.Since(start)
	metrics.RecordDBQuery(operation, table, elapsed, err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", operation, table, err)
	}
	logging.Debug().Str("operation", operation).Str("table", table).Dur("elapsed", elapsed).Msg("Corpus statement done")
	return nil
}

// importSQLite copies the animelists and anime_meta tables out of the
// SQLite snapshot.
func (db *DB) importSQLite(ctx context.Context) error {
	if _, err := os.Stat(db.cfg.SQLitePath); err != nil {
		return fmt.Errorf("%w: %s", ErrCorpusMissing, db.cfg.SQLitePath)
	}
	if err := db.loadSQLiteScanner(ctx); err != nil {
		return fmt.Errorf("load sqlite_scanner: %w", err)
	}

	attach := fmt.Sprintf("ATTACH %s AS src (TYPE sqlite, READ_ONLY)", quoteLiteral(db.cfg.SQLitePath))
	if err := db.exec(ctx, "attach", "src", attach); err != nil {
		return err
	}
	defer func() {
		if _, err := db.conn.ExecContext(context.Background(), "DETACH src"); err != nil {
			logging.Warn().Err(err).Msg("Failed to detach SQLite snapshot")
		}
	}()

	ratings := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
		SELECT CAST(username AS VARCHAR) AS username,
		       CAST(anime_id AS INTEGER) AS anime_id,
		       CAST(score AS DOUBLE) AS score
		FROM src.animelists
		WHERE score > 0 AND username IS NOT NULL AND anime_id IS NOT NULL`, TableRatings)
	if err := db.exec(ctx, "import", TableRatings, ratings); err != nil {
		return err
	}

	meta := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
		SELECT CAST(anime_id AS INTEGER) AS anime_id, CAST(title AS VARCHAR) AS title
		FROM src.anime_meta
		WHERE anime_id IS NOT NULL`, TableMetadata)
	return db.exec(ctx, "import", TableMetadata, meta)
}

// importCSV reads the ratings CSV and, when present, the metadata CSV.
// The ratings score column may be named score, rating or my_score.
func (db *DB) importCSV(ctx context.Context) error {
	if _, err := os.Stat(db.cfg.RatingsCSV); err != nil {
		return fmt.Errorf("%w: %s", ErrCorpusMissing, db.cfg.RatingsCSV)
	}

	source := fmt.Sprintf("read_csv_auto(%s, header = true)", quoteLiteral(db.cfg.RatingsCSV))
	scoreCol, err := db.pickScoreColumn(ctx, source)
	if err != nil {
		return err
	}

	ratings := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
		SELECT CAST(username AS VARCHAR) AS username,
		       CAST(anime_id AS INTEGER) AS anime_id,
		       CAST(%s AS DOUBLE) AS score
		FROM %s
		WHERE %s > 0 AND username IS NOT NULL AND anime_id IS NOT NULL`,
		TableRatings, quoteIdent(scoreCol), source, quoteIdent(scoreCol))
	if err := db.exec(ctx, "import", TableRatings, ratings); err != nil {
		return err
	}

	if db.cfg.MetadataCSV != "" {
		if _, err := os.Stat(db.cfg.MetadataCSV); err == nil {
			meta := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
				SELECT CAST(anime_id AS INTEGER) AS anime_id, CAST(title AS VARCHAR) AS title
				FROM read_csv_auto(%s, header = true)
				WHERE anime_id IS NOT NULL`, TableMetadata, quoteLiteral(db.cfg.MetadataCSV))
			return db.exec(ctx, "import", TableMetadata, meta)
		}
		logging.Warn().Str("path", db.cfg.MetadataCSV).Msg("Metadata CSV not found, titles fall back to placeholders")
	}

	empty := fmt.Sprintf("CREATE OR REPLACE TABLE %s (anime_id INTEGER, title VARCHAR)", TableMetadata)
	return db.exec(ctx, "create", TableMetadata, empty)
}

func (db *DB) pickScoreColumn(ctx context.Context, source string) (string, error) {
	rows, err := db.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	if err != nil {
		return "", fmt.Errorf("describe ratings csv: %w", err)
	}
	defer closeQuietly(rows)

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	present := make(map[string]bool)
	for rows.Next() {
		// column_name is first; the remaining DESCRIBE columns are ignored.
		vals := make([]interface{}, len(cols))
		var name string
		vals[0] = &name
		for i := 1; i < len(vals); i++ {
			vals[i] = new(interface{})
		}
		if err := rows.Scan(vals...); err != nil {
			return "", fmt.Errorf("scan csv schema: %w", err)
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	for _, required := range []string{"username", "anime_id"} {
		if !present[required] {
			return "", fmt.Errorf("ratings csv has no %s column", required)
		}
	}
	for _, c := range scoreColumns {
		if present[c] {
			return c, nil
		}
	}
	return "", fmt.Errorf("ratings csv has none of the score columns %v", scoreColumns)
}

// loadSQLiteScanner installs and loads the sqlite_scanner extension.
func (db *DB) loadSQLiteScanner(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Try to install, then load (extension may already be installed)
	if _, err := db.conn.ExecContext(ctx, "INSTALL sqlite_scanner;"); err != nil {
		_, loadErr := db.conn.ExecContext(ctx, "LOAD sqlite_scanner;")
		if loadErr == nil {
			return nil
		}
		if _, forceErr := db.conn.ExecContext(ctx, "FORCE INSTALL sqlite_scanner;"); forceErr != nil {
			return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
		}
	}

	_, err := db.conn.ExecContext(ctx, "LOAD sqlite_scanner;")
	return err
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
