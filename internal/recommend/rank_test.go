// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"slices"
	"testing"
)

type mapLookup struct {
	meta  map[int]ItemMetadata
	calls [][]int
}

func (l *mapLookup) Lookup(_ context.Context, ids []int) map[int]ItemMetadata {
	l.calls = append(l.calls, slices.Clone(ids))
	out := make(map[int]ItemMetadata)
	for _, id := range ids {
		if md, ok := l.meta[id]; ok {
			out[id] = md
		}
	}
	return out
}

func TestRank(t *testing.T) {
	t.Parallel()

	preds := []Prediction{
		{ItemID: 5, Score: 7.5},
		{ItemID: 2, Score: 9.1},
		{ItemID: 9, Score: 7.5},
		{ItemID: 1, Score: 3.2},
		{ItemID: 4, Score: 8.0},
	}

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"all", 10, []int{2, 4, 5, 9, 1}},
		{"top three", 3, []int{2, 4, 5}},
		{"one", 1, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ranked := Rank(preds, tt.n)
			ids := make([]int, len(ranked))
			for i, p := range ranked {
				ids[i] = p.ItemID
				if i > 0 && ranked[i-1].Score < p.Score {
					t.Errorf("rank %d score %v above rank %d score %v", i, p.Score, i-1, ranked[i-1].Score)
				}
			}
			if !slices.Equal(ids, tt.want) {
				t.Errorf("Rank() = %v, want %v", ids, tt.want)
			}
		})
	}

	if preds[0].ItemID != 5 {
		t.Error("Rank() modified its input")
	}
}

func TestPresent(t *testing.T) {
	t.Parallel()

	mean := 8.71
	lookup := &mapLookup{meta: map[int]ItemMetadata{
		20: {Title: "Cowboy Bebop", Mean: &mean, MediaType: "tv"},
		30: {Synopsis: "no title known"},
	}}

	ranked := []Prediction{
		{ItemID: 20, Score: 8.456},
		{ItemID: 30, Score: 7.004},
		{ItemID: 40, Score: 6.996},
	}

	recs := Present(context.Background(), ranked, lookup, PlaceholderEnriched)

	if len(lookup.calls) != 1 || !slices.Equal(lookup.calls[0], []int{20, 30, 40}) {
		t.Errorf("lookup calls = %v, want one batch of [20 30 40]", lookup.calls)
	}

	want := []struct {
		title   string
		score   float64
		hasMeta bool
	}{
		{"Cowboy Bebop", 8.46, true},
		{"Anime 30", 7.0, true},
		{"Anime 40", 7.0, false},
	}
	for i, w := range want {
		if recs[i].Title != w.title {
			t.Errorf("recs[%d].Title = %q, want %q", i, recs[i].Title, w.title)
		}
		if !approxEqual(recs[i].Score, w.score) {
			t.Errorf("recs[%d].Score = %v, want %v", i, recs[i].Score, w.score)
		}
		if (recs[i].Metadata != nil) != w.hasMeta {
			t.Errorf("recs[%d].Metadata present = %v, want %v", i, recs[i].Metadata != nil, w.hasMeta)
		}
	}
}

func TestPresent_NoLookup(t *testing.T) {
	t.Parallel()

	recs := Present(context.Background(), []Prediction{{ItemID: 7, Score: 5}}, nil, PlaceholderPlain)
	if len(recs) != 1 || recs[0].Title != "Anime ID 7" {
		t.Errorf("Present() = %+v, want placeholder title", recs)
	}
}
