// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/steinfletcher/apitest"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/mal"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/source"
)

type fakeService struct {
	recs    *models.RecommendationsResponse
	list    *models.AnimeListResponse
	err     error
	lastCtx context.Context
}

func (f *fakeService) Recommend(ctx context.Context, username string) (*models.RecommendationsResponse, error) {
	f.lastCtx = ctx
	if f.err != nil {
		return nil, f.err
	}
	out := *f.recs
	out.Username = username
	return &out, nil
}

func (f *fakeService) AnimeList(_ context.Context, username string) (*models.AnimeListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.list
	out.Username = username
	return &out, nil
}

type fakeCorpus struct {
	pingErr error
	stats   models.CorpusStats
}

func (f *fakeCorpus) Ping(context.Context) error { return f.pingErr }

func (f *fakeCorpus) Stats(context.Context) (models.CorpusStats, error) { return f.stats, nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"index.html":   "<h1>animerec</h1>",
		"results.html": "<h1>results</h1>",
		"app.js":       "console.log(1)",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return &config.Config{
		Server: config.ServerConfig{Port: 5022, StaticDir: dir, RequestTimeout: 5 * time.Second},
		Corpus: config.CorpusConfig{Source: config.SourceCSV, RatingsCSV: filepath.Join(dir, "ratings.csv")},
	}
}

func newTestHandler(t *testing.T, svc Recommender, corpus CorpusStatus) http.Handler {
	t.Helper()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	h := NewHandler(svc, corpus, testConfig(t), WithVersion("test"), WithBreakerState(func() string { return "closed" }))
	return NewRouter(h, mw).SetupChi()
}

func sampleService() *fakeService {
	mean := 8.5
	return &fakeService{
		recs: &models.RecommendationsResponse{
			Recommendations: []models.Recommendation{
				{ID: 3, AnimeID: 3, Title: "Trigun", Score: 8.12, Mean: &mean, MALURL: models.MALAnimeURL(3)},
			},
			Stats: &models.PipelineStats{Users: 3, Neighbors: 1},
		},
		list: &models.AnimeListResponse{
			Count: 1,
			List:  []models.AnimeListEntry{{ID: 1, Title: "Cowboy Bebop", Score: 9, Status: "completed"}},
		},
	}
}

// decode reads the envelope of a response.
func decode(res *http.Response, into interface{}) (*models.APIResponse, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var raw struct {
		models.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", body, err)
	}
	if into != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, into); err != nil {
			return nil, err
		}
	}
	return &raw.APIResponse, nil
}

func TestRecommendations_Success(t *testing.T) {
	t.Parallel()

	apitest.New().
		Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
		Get("/api/recommendations").
		Query("username", "spike_s").
		Expect(t).
		Status(http.StatusOK).
		Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0").
		Header("Pragma", "no-cache").
		Header("Expires", "0").
		HeaderPresent("X-Request-ID").
		Assert(func(res *http.Response, _ *http.Request) error {
			var data models.RecommendationsResponse
			env, err := decode(res, &data)
			if err != nil {
				return err
			}
			if env.Status != models.StatusSuccess || env.Metadata.RequestID == "" {
				return fmt.Errorf("envelope = %+v", env)
			}
			if data.Username != "spike_s" || len(data.Recommendations) != 1 {
				return fmt.Errorf("data = %+v", data)
			}
			if data.Recommendations[0].MALURL != "https://myanimelist.net/anime/3" {
				return fmt.Errorf("mal_url = %q", data.Recommendations[0].MALURL)
			}
			return nil
		}).
		End()
}

func TestRecommendations_V1Alias(t *testing.T) {
	t.Parallel()

	apitest.New().
		Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
		Get("/api/v1/recommendations").
		Query("username", "jet").
		Header("X-Request-ID", "req-123").
		Expect(t).
		Status(http.StatusOK).
		Header("X-Request-ID", "req-123").
		End()
}

func TestRecommendations_Username(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		query       map[string]string
		wantMessage string
	}{
		{"missing", map[string]string{}, msgMissingUsername},
		{"blank", map[string]string{"username": "  "}, msgMissingUsername},
		{"malformed", map[string]string{"username": "no spaces allowed"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apitest.New().
				Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
				Get("/api/recommendations").
				QueryParams(tt.query).
				Expect(t).
				Status(http.StatusBadRequest).
				Assert(func(res *http.Response, _ *http.Request) error {
					env, err := decode(res, nil)
					if err != nil {
						return err
					}
					if env.Error == nil || env.Error.Code != models.ErrCodeValidation {
						return fmt.Errorf("error = %+v", env.Error)
					}
					if tt.wantMessage != "" && env.Error.Message != tt.wantMessage {
						return fmt.Errorf("message = %q, want %q", env.Error.Message, tt.wantMessage)
					}
					return nil
				}).
				End()
		})
	}
}

func TestRecommendations_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
		wantData   bool
	}{
		{
			name:       "no ratable items",
			err:        recommend.ErrNoRatableItems,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrCodeNoRatableItems,
			wantMsg:    msgNoRatableItems,
		},
		{
			name:       "matrix inconsistency",
			err:        fmt.Errorf("build: %w", recommend.ErrUserMatrixInconsistency),
			wantStatus: http.StatusInternalServerError,
			wantCode:   models.ErrCodeMatrix,
			wantMsg:    msgMatrix,
		},
		{
			name:       "no similar users",
			err:        recommend.ErrNoSimilarUsers,
			wantStatus: http.StatusOK,
			wantCode:   models.ErrCodeNoSimilarUsers,
			wantMsg:    msgNoSimilarUsers,
			wantData:   true,
		},
		{
			name:       "no predictable items",
			err:        recommend.ErrNoPredictableItems,
			wantStatus: http.StatusOK,
			wantCode:   models.ErrCodeNoPredictable,
			wantMsg:    msgNoPredictable,
			wantData:   true,
		},
		{
			name: "mal status kept",
			err: &source.Error{Op: source.OpAnimeList, Err: &mal.StatusError{
				StatusCode: http.StatusNotFound, Body: `{"error":"not_found"}`,
			}},
			wantStatus: http.StatusNotFound,
			wantCode:   models.ErrCodeMALFailed,
			wantMsg:    msgMALFailed,
		},
		{
			name:       "corpus unavailable",
			err:        &source.Error{Op: source.OpCorpus, Err: errors.New("no such table")},
			wantStatus: http.StatusBadGateway,
			wantCode:   models.ErrCodeCorpusUnavailable,
			wantMsg:    msgCorpusUnavailable,
		},
		{
			name:       "timeout",
			err:        &source.Error{Op: source.OpAnimeList, Err: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   models.ErrCodeTimeout,
			wantMsg:    msgTimeout,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   models.ErrCodeInternal,
			wantMsg:    msgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apitest.New().
				Handler(newTestHandler(t, &fakeService{err: tt.err}, &fakeCorpus{})).
				Get("/api/recommendations").
				Query("username", "faye").
				Expect(t).
				Status(tt.wantStatus).
				Assert(func(res *http.Response, _ *http.Request) error {
					var data models.RecommendationsResponse
					env, err := decode(res, &data)
					if err != nil {
						return err
					}
					if env.Status != models.StatusError || env.Error == nil {
						return fmt.Errorf("envelope = %+v", env)
					}
					if env.Error.Code != tt.wantCode || env.Error.Message != tt.wantMsg {
						return fmt.Errorf("error = %+v", env.Error)
					}
					if tt.wantData && (data.Recommendations == nil || len(data.Recommendations) != 0) {
						return fmt.Errorf("data = %+v, want empty list", data)
					}
					return nil
				}).
				End()
		})
	}
}

func TestMapError_MALDetails(t *testing.T) {
	t.Parallel()

	status, apiErr := mapError(&source.Error{Op: source.OpAnimeList, Err: &mal.StatusError{
		StatusCode: http.StatusForbidden, Body: "private list",
	}})
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", status)
	}
	if apiErr.Details["details"] != "private list" || apiErr.Details["upstream_status"] != http.StatusForbidden {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestAnimeList(t *testing.T) {
	t.Parallel()

	apitest.New().
		Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
		Get("/api/animelist").
		Query("username", "ed").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			var data models.AnimeListResponse
			if _, err := decode(res, &data); err != nil {
				return err
			}
			if data.Username != "ed" || data.Count != 1 || data.List[0].Title != "Cowboy Bebop" {
				return fmt.Errorf("data = %+v", data)
			}
			return nil
		}).
		End()
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		corpus CorpusStatus
		wantOK bool
	}{
		{"connected", &fakeCorpus{stats: models.CorpusStats{Ratings: 10, Users: 2}}, true},
		{"ping fails", &fakeCorpus{pingErr: errors.New("closed")}, false},
		{"no store", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apitest.New().
				Handler(newTestHandler(t, sampleService(), tt.corpus)).
				Get("/api/health").
				Expect(t).
				Status(http.StatusOK).
				Assert(func(res *http.Response, _ *http.Request) error {
					var data models.HealthResponse
					if _, err := decode(res, &data); err != nil {
						return err
					}
					if data.OK != tt.wantOK || data.Port != 5022 || data.Source != config.SourceCSV {
						return fmt.Errorf("health = %+v", data)
					}
					if data.Exists["ratings_csv"] {
						return errors.New("ratings_csv reported as existing")
					}
					if tt.wantOK && (data.Corpus == nil || data.Corpus.Ratings != 10) {
						return fmt.Errorf("corpus = %+v", data.Corpus)
					}
					if data.Breaker != "closed" || data.Version != "test" {
						return fmt.Errorf("breaker/version = %q/%q", data.Breaker, data.Version)
					}
					return nil
				}).
				End()
		})
	}
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, sampleService(), &fakeCorpus{})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<h1>animerec</h1>"},
		{"/results.html", http.StatusOK, "<h1>results</h1>"},
		{"/app.js", http.StatusOK, "console.log(1)"},
		{"/missing.css", http.StatusNotFound, ""},
		{"/../../etc/passwd", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			a := apitest.New().
				Handler(handler).
				Get(tt.path).
				Expect(t).
				Status(tt.wantStatus).
				Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			if tt.wantBody != "" {
				a = a.Body(tt.wantBody)
			}
			a.End()
		})
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	t.Parallel()

	apitest.New().
		Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
		Get("/api/nope").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(func(res *http.Response, _ *http.Request) error {
			env, err := decode(res, nil)
			if err != nil {
				return err
			}
			if env.Error == nil || env.Error.Code != models.ErrCodeNotFound {
				return fmt.Errorf("error = %+v", env.Error)
			}
			return nil
		}).
		End()
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	apitest.New().
		Handler(newTestHandler(t, sampleService(), &fakeCorpus{})).
		Get("/metrics").
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	mw.RateLimitWindow = time.Minute
	h := NewRouter(NewHandler(sampleService(), &fakeCorpus{}, testConfig(t)), mw).SetupChi()

	apitest.New().Handler(h).Get("/api/health").Expect(t).Status(http.StatusOK).End()
	apitest.New().Handler(h).Get("/api/v1/health").Expect(t).Status(http.StatusTooManyRequests).End()
}

func TestRecommendations_RequestTimeout(t *testing.T) {
	t.Parallel()

	svc := sampleService()
	apitest.New().
		Handler(newTestHandler(t, svc, &fakeCorpus{})).
		Get("/api/recommendations").
		Query("username", "vicious").
		Expect(t).
		Status(http.StatusOK).
		End()

	if _, ok := svc.lastCtx.Deadline(); !ok {
		t.Error("service context has no deadline")
	}
}
