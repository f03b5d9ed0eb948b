// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

const listFields = "list_status,num_episodes,status,score"

type listPage struct {
	Data []struct {
		Node struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"node"`
		ListStatus struct {
			Status    string `json:"status"`
			Score     int    `json:"score"`
			UpdatedAt string `json:"updated_at"`
		} `json:"list_status"`
	} `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// AnimeList fetches a user's whole list, one page at a time. Statuses are
// normalized to snake case and a missing score is 0.
func (c *Client) AnimeList(ctx context.Context, username string) ([]models.AnimeListEntry, error) {
	path := "/users/" + url.PathEscape(username) + "/animelist"
	limit := c.cfg.PageLimit

	var out []models.AnimeListEntry
	for offset := 0; ; offset += limit {
		query := url.Values{
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
			"fields": {listFields},
		}
		body, err := c.get(ctx, endpointAnimeList, path, query, c.cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}

		var page listPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("mal: decode animelist page at offset %d: %w", offset, err)
		}
		for _, e := range page.Data {
			out = append(out, models.AnimeListEntry{
				ID:        e.Node.ID,
				Title:     e.Node.Title,
				Score:     e.ListStatus.Score,
				Status:    recommend.NormalizeStatus(e.ListStatus.Status),
				UpdatedAt: e.ListStatus.UpdatedAt,
			})
		}

		if page.Paging.Next == "" || len(page.Data) == 0 {
			break
		}
	}

	c.logger.Debug().Str("username", username).Int("entries", len(out)).Msg("fetched animelist")
	return out, nil
}
