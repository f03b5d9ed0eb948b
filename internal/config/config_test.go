// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/animerec/internal/recommend"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() = %v", err)
	}

	if cfg.Server.Port != 5022 {
		t.Errorf("Server.Port = %d, want 5022", cfg.Server.Port)
	}
	if cfg.MAL.PagePause != 250*time.Millisecond {
		t.Errorf("MAL.PagePause = %v, want 250ms", cfg.MAL.PagePause)
	}
	if cfg.Corpus.Source != SourceSQLite {
		t.Errorf("Corpus.Source = %q, want sqlite", cfg.Corpus.Source)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"unknown source", func(c *Config) { c.Corpus.Source = "parquet" }, "Source"},
		{"csv without path", func(c *Config) {
			c.Corpus.Source = SourceCSV
			c.Corpus.RatingsCSV = ""
		}, "ratings_csv"},
		{"sqlite without path", func(c *Config) { c.Corpus.SQLitePath = " " }, "sqlite_path"},
		{"non http base url", func(c *Config) { c.MAL.BaseURL = "ftp://api.myanimelist.net" }, "BaseURL"},
		{"base url with query", func(c *Config) { c.MAL.BaseURL = "https://api.myanimelist.net/v2?x=1" }, "query"},
		{"zero page limit", func(c *Config) { c.MAL.PageLimit = 0 }, "PageLimit"},
		{"zero detail timeout", func(c *Config) { c.MAL.DetailTimeout = 0 }, "detail_timeout"},
		{"retry window inverted", func(c *Config) { c.MAL.RetryMax = time.Millisecond }, "retry_initial"},
		{"negative shrinkage", func(c *Config) { c.Recommend.Shrinkage = -1 }, "recommend"},
		{"unknown imputation", func(c *Config) { c.Recommend.Imputation = "guess" }, "imputation"},
		{"unknown preset", func(c *Config) { c.Recommend.Preset = "lenient" }, "Preset"},
		{"cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"cache disabled skips ttl", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.TTL = 0
		}, ""},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "rate_limit_reqs"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendConfig_EngineConfig(t *testing.T) {
	t.Parallel()

	rc := defaultConfig().Recommend
	rc.StatusScores = map[string]float64{"Plan to Watch": 6}

	ec := rc.EngineConfig()
	if ec.StatusScores["plan_to_watch"] != 6 {
		t.Errorf("plan_to_watch = %v, want 6", ec.StatusScores["plan_to_watch"])
	}
	if ec.StatusScores["completed"] != 9 {
		t.Errorf("completed = %v, want default 9", ec.StatusScores["completed"])
	}
	if ec.Imputation != recommend.ImputeFromStatus {
		t.Errorf("Imputation = %q", ec.Imputation)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("EngineConfig().Validate() = %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"RECOMMEND_MIN_SUPPORT": "recommend.min_support",
		"MAL_ACCESS_TOKEN":      "mal.access_token",
		"HTTP_PORT":             "server.port",
		"CORS_ORIGINS":          "security.cors_origins",
		"HOME":                  "",
		"PATH":                  "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

// Load tests use t.Setenv and therefore run sequentially.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.Neighbors != 100 || cfg.Recommend.TopN != 10 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if !slices.Equal(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECOMMEND_MIN_SUPPORT", "2")
	t.Setenv("MAL_PAGE_PAUSE", "1s")
	t.Setenv("MAL_ACCESS_TOKEN", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:5022, https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.MinSupport != 2 {
		t.Errorf("MinSupport = %d, want 2", cfg.Recommend.MinSupport)
	}
	if cfg.MAL.PagePause != time.Second {
		t.Errorf("PagePause = %v, want 1s", cfg.MAL.PagePause)
	}
	if cfg.MAL.AccessToken != "secret" {
		t.Errorf("AccessToken = %q", cfg.MAL.AccessToken)
	}
	want := []string{"http://localhost:5022", "https://example.com"}
	if !slices.Equal(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoad_FileAndStrictPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
recommend:
  preset: strict
  min_support: 2
corpus:
  ratings_csv: /data/animelists_cleaned.csv
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_TOP_N", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Corpus.Source != SourceCSV {
		t.Errorf("Corpus.Source = %q, want csv from preset", cfg.Corpus.Source)
	}
	if cfg.Recommend.ActivityThreshold != 30 {
		t.Errorf("ActivityThreshold = %d, want 30 from preset", cfg.Recommend.ActivityThreshold)
	}
	if cfg.Recommend.MinSupport != 2 {
		t.Errorf("MinSupport = %d, want explicit 2 over preset", cfg.Recommend.MinSupport)
	}
	if cfg.Recommend.Imputation != string(recommend.ImputeStrict) {
		t.Errorf("Imputation = %q, want strict", cfg.Recommend.Imputation)
	}
	if cfg.Recommend.TopN != 5 {
		t.Errorf("TopN = %d, want 5 from env", cfg.Recommend.TopN)
	}
	if cfg.Corpus.RatingsCSV != "/data/animelists_cleaned.csv" {
		t.Errorf("RatingsCSV = %q", cfg.Corpus.RatingsCSV)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECOMMEND_NEIGHBORS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error, want validation failure")
	}
}

func TestLoad_UnknownPreset(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECOMMEND_PRESET", "lenient")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "preset") {
		t.Fatalf("Load() error = %v, want unknown preset", err)
	}
}
