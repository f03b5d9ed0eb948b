// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
)

// maxErrorBodySize limits how much of a failed response is kept.
const maxErrorBodySize = 64 * 1024

// maxBodySize bounds a successful page. A 1000-entry list page is well
// under a megabyte.
const maxBodySize = 16 << 20

// Endpoint labels for metrics.
const (
	endpointAnimeList = "animelist"
	endpointDetails   = "anime_details"
)

// StatusError is a non-200 answer from MAL.
type StatusError struct {
	StatusCode int
	Body       string

	// RetryAfter is the parsed Retry-After header, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mal: HTTP %d", e.StatusCode)
}

// Temporary reports whether the call is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}

// Client talks to the MAL v2 API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.MALConfig
	limiter    *rate.Limiter
	breaker    *breaker
	tokens     *tokenSource
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client from the mal config section.
func NewClient(cfg *config.MALConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.PagePause > 0 {
		limit = rate.Every(cfg.PagePause)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{},
		cfg:        *cfg,
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    newBreaker(cfg),
		tokens:     newTokenSource(cfg.AccessToken, cfg.TokenFile),
		logger:     logging.WithComponent("mal"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BreakerState is "closed", "half-open" or "open".
func (c *Client) BreakerState() string {
	return c.breaker.state()
}

// get performs one logical call: token, pacing, retries, breaker.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, timeout time.Duration) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	var last error

	op := func() ([]byte, error) {
		body, err := c.breaker.execute(func() ([]byte, error) {
			return c.fetch(ctx, endpoint, path, query, token, timeout)
		})
		if err == nil {
			return body, nil
		}
		last = err
		if isBreakerRejection(err) {
			metrics.RecordMALRequest(endpoint, metrics.OutcomeRejected, 0)
			return nil, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}

		var se *StatusError
		if errors.As(err, &se) {
			if !se.Temporary() {
				return nil, backoff.Permanent(err)
			}
			if se.RetryAfter > 0 {
				return nil, backoff.RetryAfter(int(se.RetryAfter / time.Second))
			}
		}
		return nil, err
	}

	body, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			metrics.MALRetries.WithLabelValues(endpoint).Inc()
			c.logger.Debug().Err(last).Str("endpoint", endpoint).Dur("wait", wait).Msg("retrying MAL call")
		}),
	)
	if err != nil {
		var ra *backoff.RetryAfterError
		if errors.As(err, &ra) && last != nil {
			err = last
		}
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Dur("elapsed", time.Since(start)).Msg("MAL call failed")
		return nil, err
	}
	return body, nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if c.cfg.RetryInitial > 0 {
		b.InitialInterval = c.cfg.RetryInitial
	}
	if c.cfg.RetryMax > 0 {
		b.MaxInterval = c.cfg.RetryMax
	}
	return b
}

// fetch is a single HTTP attempt.
func (c *Client) fetch(ctx context.Context, endpoint, path string, query url.Values, token string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("mal: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordMALRequest(endpoint, metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("mal: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RecordMALRequest(endpoint, metrics.MALOutcome(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       readBodyForError(resp.Body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("mal: read %s body: %w", endpoint, err)
	}
	return body, nil
}

// parseRetryAfter accepts delay-seconds. HTTP-date values are rare from
// MAL and fall back to the normal backoff.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
