// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jellydator/ttlcache/v3"
)

// ErrNoToken is returned when neither a configured token nor a readable
// token file is available.
var ErrNoToken = errors.New("mal: no access token configured")

const tokenTTL = 5 * time.Minute

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// LoadToken reads the access_token field of a token.json file.
func LoadToken(path string) (string, error) {
	if path == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoToken, err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("mal: parse token file %s: %w", path, err)
	}
	if strings.TrimSpace(tf.AccessToken) == "" {
		return "", fmt.Errorf("%w: %s has no access_token", ErrNoToken, path)
	}
	return strings.TrimSpace(tf.AccessToken), nil
}

// tokenSource memoizes the file token so a rotated file is picked up
// without a restart.
type tokenSource struct {
	static string
	path   string
	cache  *ttlcache.Cache[string, string]
}

func newTokenSource(static, path string) *tokenSource {
	return &tokenSource{
		static: strings.TrimSpace(static),
		path:   path,
		cache:  ttlcache.New(ttlcache.WithTTL[string, string](tokenTTL)),
	}
}

func (t *tokenSource) Token() (string, error) {
	if t.static != "" {
		return t.static, nil
	}
	if item := t.cache.Get(t.path); item != nil {
		return item.Value(), nil
	}
	tok, err := LoadToken(t.path)
	if err != nil {
		return "", err
	}
	t.cache.Set(t.path, tok, ttlcache.DefaultTTL)
	return tok, nil
}
