// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"errors"
	"slices"
	"testing"
)

func TestSelectNeighbors(t *testing.T) {
	t.Parallel()

	sims := []Similarity{
		{UserID: "a", Weight: 0.2},
		{UserID: "b", Weight: 0},
		{UserID: "c", Weight: 0.5},
		{UserID: "d", Weight: -0.3},
		{UserID: "e", Weight: 0.2},
		{UserID: "f", Weight: 0.1},
	}

	tests := []struct {
		name    string
		sims    []Similarity
		k       int
		want    []string
		wantErr error
	}{
		{
			name: "positive weights ordered with id tiebreak",
			sims: sims,
			k:    10,
			want: []string{"c", "a", "e", "f"},
		},
		{
			name: "truncated to k",
			sims: sims,
			k:    2,
			want: []string{"c", "a"},
		},
		{
			name:    "only non-positive weights",
			sims:    []Similarity{{UserID: "x", Weight: 0}, {UserID: "y", Weight: -1}},
			k:       5,
			wantErr: ErrNoSimilarUsers,
		},
		{
			name:    "no candidates",
			sims:    nil,
			k:       5,
			wantErr: ErrNoSimilarUsers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectNeighbors(tt.sims, tt.k)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SelectNeighbors() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectNeighbors() error = %v", err)
			}

			ids := make([]string, len(got))
			for i, n := range got {
				ids[i] = n.UserID
				if n.Weight <= 0 {
					t.Errorf("neighbor %q has weight %v", n.UserID, n.Weight)
				}
			}
			if !slices.Equal(ids, tt.want) {
				t.Errorf("SelectNeighbors() = %v, want %v", ids, tt.want)
			}
		})
	}
}
