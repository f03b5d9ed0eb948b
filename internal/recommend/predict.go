// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
)

// PredictRatings predicts a score for every unseen item in the matrix:
//
//	pred = mean(target) + sum(w * (r - mean(n))) / sum(|w|)
//
// over neighbors n with a known rating r and a positive weight w. Items with
// fewer than cfg.MinSupport such neighbors are skipped, and every prediction is
// clipped to [cfg.MinRating, cfg.MaxRating].
func PredictRatings(m *Matrix, target string, seen mapset.Set[int], neighbors []Neighbor, cfg *Config) ([]Prediction, error) {
	targetMean, ok := m.Mean(target)
	if !ok {
		return nil, ErrUserMatrixInconsistency
	}

	rows := make([]*row, len(neighbors))
	for i, n := range neighbors {
		rows[i] = m.rows[n.UserID]
	}

	preds := make([]Prediction, 0)
	for _, itemID := range m.items {
		if seen.Contains(itemID) {
			continue
		}

		var num, den float64
		support := 0
		for i, n := range neighbors {
			if n.Weight <= 0 || rows[i] == nil {
				continue
			}
			r, known := rows[i].rating(itemID)
			if !known {
				continue
			}
			num += n.Weight * (r - rows[i].mean)
			den += math.Abs(n.Weight)
			support++
		}

		if support < cfg.MinSupport || den == 0 {
			continue
		}

		preds = append(preds, Prediction{
			ItemID:  itemID,
			Score:   clip(targetMean+num/den, cfg.MinRating, cfg.MaxRating),
			Support: support,
		})
	}

	if len(preds) == 0 {
		return nil, ErrNoPredictableItems
	}

	return preds, nil
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
