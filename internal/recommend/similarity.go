// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"
)

// ShrinkFactor returns c / (c + beta), the confidence in a similarity built
// from c co-rated items. It is 0 when c is 0.
func ShrinkFactor(coRated int, beta float64) float64 {
	if coRated <= 0 {
		return 0
	}
	c := float64(coRated)
	return c / (c + beta)
}

// ShrunkWeight clamps negative cosine values to zero and applies shrinkage.
func ShrunkWeight(cosine float64, coRated int, beta float64) float64 {
	return math.Max(cosine, 0) * ShrinkFactor(coRated, beta)
}

// centeredNorm returns the L2 norm of a row after subtracting its mean.
// Unknown cells are zero after centering and add nothing.
func centeredNorm(r *row) float64 {
	var sum float64
	for _, s := range r.scores {
		d := s - r.mean
		sum += d * d
	}
	return math.Sqrt(sum)
}

// centeredDot walks two sorted rows in lockstep and returns the dot product of
// their centered values over shared items together with the shared count.
func centeredDot(a, b *row) (dot float64, shared int) {
	i, j := 0, 0
	for i < len(a.items) && j < len(b.items) {
		switch {
		case a.items[i] < b.items[j]:
			i++
		case a.items[i] > b.items[j]:
			j++
		default:
			dot += (a.scores[i] - a.mean) * (b.scores[j] - b.mean)
			shared++
			i++
			j++
		}
	}
	return dot, shared
}

// ComputeSimilarities compares the target with every other user in the matrix.
// The result is ordered by user id and never contains the target.
func ComputeSimilarities(m *Matrix, target string, cfg *Config) []Similarity {
	t, ok := m.rows[target]
	if !ok {
		return nil
	}
	targetNorm := centeredNorm(t)

	sims := make([]Similarity, 0, len(m.users)-1)
	for _, user := range m.users {
		if user == target {
			continue
		}
		other := m.rows[user]

		dot, shared := centeredDot(t, other)

		var cosine float64
		if otherNorm := centeredNorm(other); targetNorm > 0 && otherNorm > 0 {
			cosine = dot / (targetNorm * otherNorm)
		}

		weight := ShrunkWeight(cosine, shared, cfg.Shrinkage)
		if cfg.AllowNegativeNeighbors && cosine < 0 {
			weight = cosine * ShrinkFactor(shared, cfg.Shrinkage)
		}

		sims = append(sims, Similarity{
			UserID:  user,
			Cosine:  cosine,
			CoRated: shared,
			Weight:  weight,
		})
	}

	return sims
}
