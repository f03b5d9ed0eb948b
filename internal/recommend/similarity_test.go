// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestShrinkFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		coRated int
		beta    float64
		want    float64
	}{
		{"no overlap", 0, 25, 0},
		{"one item", 1, 25, 1.0 / 26},
		{"equal to beta", 25, 25, 0.5},
		{"zero beta", 3, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ShrinkFactor(tt.coRated, tt.beta); !approxEqual(got, tt.want) {
				t.Errorf("ShrinkFactor(%d, %v) = %v, want %v", tt.coRated, tt.beta, got, tt.want)
			}
		})
	}
}

func TestShrunkWeight_Monotonic(t *testing.T) {
	t.Parallel()

	const cosine = 0.8
	prev := 0.0
	for c := 1; c <= 2000; c++ {
		w := ShrunkWeight(cosine, c, 25)
		if w <= prev {
			t.Fatalf("ShrunkWeight at c=%d is %v, not greater than %v", c, w, prev)
		}
		if w >= cosine {
			t.Fatalf("ShrunkWeight at c=%d is %v, reached the raw cosine", c, w)
		}
		prev = w
	}

	if w := ShrunkWeight(cosine, 1_000_000_000, 25); math.Abs(w-cosine) > 1e-6 {
		t.Errorf("ShrunkWeight for large c = %v, want close to %v", w, cosine)
	}
}

func TestShrunkWeight_ClampsNegative(t *testing.T) {
	t.Parallel()

	if w := ShrunkWeight(-0.7, 10, 25); w != 0 {
		t.Errorf("ShrunkWeight(-0.7) = %v, want 0", w)
	}
}

func TestComputeSimilarities(t *testing.T) {
	t.Parallel()

	m := NewMatrix([]Rating{
		{UserID: "A", ItemID: 1, Score: 8},
		{UserID: "A", ItemID: 2, Score: 6},
		{UserID: "B", ItemID: 1, Score: 7},
		{UserID: "B", ItemID: 2, Score: 9},
		{UserID: "B", ItemID: 3, Score: 5},
		{UserID: "C", ItemID: 7, Score: 4},
		{UserID: "C", ItemID: 8, Score: 9},
		{UserID: "U", ItemID: 1, Score: 6},
		{UserID: "U", ItemID: 2, Score: 10},
	})

	sims := ComputeSimilarities(m, "U", DefaultConfig())
	if len(sims) != 3 {
		t.Fatalf("len(sims) = %d, want 3", len(sims))
	}

	byUser := make(map[string]Similarity, len(sims))
	for i, s := range sims {
		if s.UserID == "U" {
			t.Fatal("target user appears among its own similarities")
		}
		if i > 0 && sims[i-1].UserID >= s.UserID {
			t.Errorf("similarities not ordered by user id: %q before %q", sims[i-1].UserID, s.UserID)
		}
		byUser[s.UserID] = s
	}

	tests := []struct {
		user    string
		cosine  float64
		coRated int
		weight  float64
	}{
		{"A", -1, 2, 0},
		{"B", 0.5, 2, 0.5 * 2.0 / 27.0},
		{"C", 0, 0, 0},
	}

	for _, tt := range tests {
		s := byUser[tt.user]
		if !approxEqual(s.Cosine, tt.cosine) {
			t.Errorf("%s cosine = %v, want %v", tt.user, s.Cosine, tt.cosine)
		}
		if s.CoRated != tt.coRated {
			t.Errorf("%s co-rated = %d, want %d", tt.user, s.CoRated, tt.coRated)
		}
		if !approxEqual(s.Weight, tt.weight) {
			t.Errorf("%s weight = %v, want %v", tt.user, s.Weight, tt.weight)
		}
	}

	t.Run("negative weights kept when allowed", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.AllowNegativeNeighbors = true
		for _, s := range ComputeSimilarities(m, "U", cfg) {
			if s.UserID == "A" && !approxEqual(s.Weight, -2.0/27.0) {
				t.Errorf("A weight = %v, want %v", s.Weight, -2.0/27.0)
			}
		}
	})

	t.Run("flat target has no similarity", func(t *testing.T) {
		t.Parallel()

		flat := NewMatrix([]Rating{
			{UserID: "B", ItemID: 1, Score: 7},
			{UserID: "B", ItemID: 2, Score: 9},
			{UserID: "U", ItemID: 1, Score: 10},
			{UserID: "U", ItemID: 2, Score: 10},
		})
		for _, s := range ComputeSimilarities(flat, "U", DefaultConfig()) {
			if s.Cosine != 0 || s.Weight != 0 {
				t.Errorf("%s = %+v, want zero cosine and weight", s.UserID, s)
			}
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()

		if sims := ComputeSimilarities(m, "nobody", DefaultConfig()); sims != nil {
			t.Errorf("ComputeSimilarities(nobody) = %v, want nil", sims)
		}
	})
}
