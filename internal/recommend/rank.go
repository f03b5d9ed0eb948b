// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Rank sorts predictions by descending score and keeps the first n.
// Equal scores are ordered by item id. The input slice is not modified.
func Rank(preds []Prediction, n int) []Prediction {
	ranked := make([]Prediction, len(preds))
	copy(ranked, preds)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Placeholder returns the label shown for an item without a known title.
func Placeholder(itemID int, style PlaceholderStyle) string {
	if style == PlaceholderPlain {
		return fmt.Sprintf("Anime ID %d", itemID)
	}
	return fmt.Sprintf("Anime %d", itemID)
}

// RoundScore rounds a prediction to two decimals for display.
func RoundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

// Present resolves metadata for ranked predictions. A nil lookup yields
// placeholder titles for every item.
func Present(ctx context.Context, ranked []Prediction, lookup MetadataLookup, style PlaceholderStyle) []Recommendation {
	var meta map[int]ItemMetadata
	if lookup != nil && len(ranked) > 0 {
		ids := make([]int, len(ranked))
		for i, p := range ranked {
			ids[i] = p.ItemID
		}
		meta = lookup.Lookup(ctx, ids)
	}

	recs := make([]Recommendation, len(ranked))
	for i, p := range ranked {
		rec := Recommendation{
			ItemID: p.ItemID,
			Title:  Placeholder(p.ItemID, style),
			Score:  RoundScore(p.Score),
		}
		if md, ok := meta[p.ItemID]; ok {
			if md.Title != "" {
				rec.Title = md.Title
			}
			md := md
			rec.Metadata = &md
		}
		recs[i] = rec
	}
	return recs
}
