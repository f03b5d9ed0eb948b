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
)

const detailFields = "id,title,main_picture,synopsis,mean,rating,num_list_users,media_type,genres,start_date,end_date"

// AnimeDetails is the subset of /anime/{id} shown with a recommendation.
type AnimeDetails struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	MainPicture  *models.Picture `json:"main_picture,omitempty"`
	Synopsis     string          `json:"synopsis,omitempty"`
	Mean         *float64        `json:"mean,omitempty"`
	Rating       string          `json:"rating,omitempty"`
	NumListUsers *int            `json:"num_list_users,omitempty"`
	MediaType    string          `json:"media_type,omitempty"`
	Genres       []models.Genre  `json:"genres,omitempty"`
	StartDate    string          `json:"start_date,omitempty"`
	EndDate      string          `json:"end_date,omitempty"`
}

// AnimeDetails fetches one title. On any failure it returns a value
// holding only the id, together with the error.
func (c *Client) AnimeDetails(ctx context.Context, id int) (*AnimeDetails, error) {
	path := "/anime/" + strconv.Itoa(id)
	body, err := c.get(ctx, endpointDetails, path, url.Values{"fields": {detailFields}}, c.cfg.DetailTimeout)
	if err != nil {
		return &AnimeDetails{ID: id}, err
	}

	var d AnimeDetails
	if err := json.Unmarshal(body, &d); err != nil {
		return &AnimeDetails{ID: id}, fmt.Errorf("mal: decode anime %d: %w", id, err)
	}
	if d.ID == 0 {
		d.ID = id
	}
	return &d, nil
}
