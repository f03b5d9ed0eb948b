// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
)

// Table names.
const (
	TableRatings  = "ratings"
	TableMetadata = "anime_meta"
)

// ErrCorpusMissing means the configured source file does not exist.
var ErrCorpusMissing = errors.New("corpus source file not found")

// DB wraps the DuckDB connection holding the imported corpus.
// The tables are written once by New and only read afterwards.
type DB struct {
	conn *sql.DB
	cfg  config.CorpusConfig
}

// New opens DuckDB and imports the corpus from the configured source.
func New(ctx context.Context, cfg *config.CorpusConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	path := cfg.DuckDBPath
	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	// Extensions are loaded explicitly by loadSQLiteScanner.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: *cfg}

	start := time.Now()
	if err := db.importCorpus(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		closeQuietly(conn)
		return nil, err
	}
	logging.Info().
		Str("source", cfg.Source).
		Int("ratings", stats.Ratings).
		Int("users", stats.Users).
		Int("items", stats.Items).
		Int("titles", stats.Titles).
		Dur("elapsed", time.Since(start)).
		Msg("Corpus imported")

	return db, nil
}

// Conn exposes the underlying connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Source is the configured corpus source, "sqlite" or "csv".
func (db *DB) Source() string {
	return db.cfg.Source
}

// Ping checks that the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// SourcePaths maps a label to each file the corpus is read from, for the
// health endpoint.
func SourcePaths(cfg *config.CorpusConfig) map[string]string {
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}

	if cfg.Source == config.SourceCSV {
		paths := map[string]string{"ratings_csv": abs(cfg.RatingsCSV)}
		if cfg.MetadataCSV != "" {
			paths["metadata_csv"] = abs(cfg.MetadataCSV)
		}
		return paths
	}
	return map[string]string{"sqlite": abs(cfg.SQLitePath)}
}

// SourceExists reports, per SourcePaths label, whether the file exists.
func SourceExists(cfg *config.CorpusConfig) map[string]bool {
	exists := make(map[string]bool)
	for label, p := range SourcePaths(cfg) {
		_, err := os.Stat(p)
		exists[label] = err == nil
	}
	return exists
}
