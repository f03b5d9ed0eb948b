// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/recommender"
)

const listBody = `{"data":[
	{"node":{"id":1,"title":"Cowboy Bebop"},"list_status":{"status":"completed","score":6}},
	{"node":{"id":2,"title":"Trigun"},"list_status":{"status":"completed","score":10}}
],"paging":{}}`

func malServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/viewer/animelist" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, malURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	ratings := filepath.Join(dir, "animelists_cleaned.csv")
	meta := filepath.Join(dir, "anime_cleaned.csv")
	writeFile(t, ratings, "username,anime_id,my_score\nA,1,8\nA,2,6\nB,1,7\nB,2,9\nB,3,5\n")
	writeFile(t, meta, "anime_id,title\n1,Cowboy Bebop\n2,Trigun\n3,Haibane Renmei\n")

	cfg := config.Default()
	cfg.Corpus.Source = config.SourceCSV
	cfg.Corpus.RatingsCSV = ratings
	cfg.Corpus.MetadataCSV = meta
	cfg.Corpus.MaxMemory = "256MB"
	cfg.Corpus.Threads = 1
	cfg.MAL.BaseURL = malURL
	cfg.MAL.AccessToken = "test-token"
	cfg.MAL.Enrich = false
	cfg.MAL.PagePause = 0
	cfg.MAL.RetryInitial = time.Millisecond
	cfg.MAL.RetryMax = 2 * time.Millisecond
	cfg.Recommend.ActivityThreshold = 0
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestNew_EndToEnd(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, malServer(t).URL)
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Degraded() {
		t.Fatalf("Degraded() = true, CorpusErr = %v", a.CorpusErr)
	}
	if a.Details == nil || a.CacheDB == nil {
		t.Error("detail cache not wired")
	}

	resp, err := a.Service.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("Recommendations = %+v", resp.Recommendations)
	}
	got := resp.Recommendations[0]
	if got.ID != 3 || got.Title != "Haibane Renmei" || got.Score != 6 {
		t.Errorf("recommendation = %+v", got)
	}

	if n, err := a.CollectCacheGarbage(); err != nil || n != 0 {
		t.Errorf("CollectCacheGarbage() = %d, %v", n, err)
	}
}

func TestNew_Degraded(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, malServer(t).URL)
	cfg.Corpus.RatingsCSV = filepath.Join(t.TempDir(), "absent.csv")
	cfg.Cache.Enabled = false

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if !a.Degraded() || !errors.Is(a.CorpusErr, database.ErrCorpusMissing) {
		t.Fatalf("Degraded() = %v, CorpusErr = %v", a.Degraded(), a.CorpusErr)
	}
	if a.CacheDB != nil {
		t.Error("cache opened while disabled")
	}

	_, err = a.Service.Recommend(context.Background(), "viewer")
	if code := recommender.ResultCode(err); code != recommender.ResultSourceError {
		t.Errorf("ResultCode(%v) = %q, want %q", err, code, recommender.ResultSourceError)
	}

	list, err := a.Service.AnimeList(context.Background(), "viewer")
	if err != nil || len(list.List) != 2 {
		t.Errorf("AnimeList() = %+v, %v", list, err)
	}
}

func TestNew_RequireCorpus(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Corpus.RatingsCSV = filepath.Join(t.TempDir(), "absent.csv")

	if _, err := New(context.Background(), cfg, RequireCorpus()); !errors.Is(err, database.ErrCorpusMissing) {
		t.Errorf("New(RequireCorpus) error = %v, want ErrCorpusMissing", err)
	}
}

func TestClose_Partial(t *testing.T) {
	t.Parallel()

	a := &App{Config: config.Default()}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on empty App = %v", err)
	}
}
