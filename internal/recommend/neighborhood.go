// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"sort"
)

// SelectNeighbors keeps the k users with the highest positive weight.
// Equal weights are ordered by user id.
func SelectNeighbors(sims []Similarity, k int) ([]Neighbor, error) {
	candidates := make([]Neighbor, 0, len(sims))
	for _, s := range sims {
		if s.Weight > 0 {
			candidates = append(candidates, Neighbor{UserID: s.UserID, Weight: s.Weight})
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoSimilarUsers
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Weight != candidates[j].Weight {
			return candidates[i].Weight > candidates[j].Weight
		}
		return candidates[i].UserID < candidates[j].UserID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}
