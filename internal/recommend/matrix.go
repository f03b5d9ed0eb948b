// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// row holds one user's known ratings ordered by item id.
type row struct {
	items  []int
	scores []float64
	pos    map[int]int
	mean   float64
}

func (r *row) rating(itemID int) (float64, bool) {
	i, ok := r.pos[itemID]
	if !ok {
		return 0, false
	}
	return r.scores[i], true
}

// Matrix is a sparse user x item rating table. A missing cell is unknown,
// which is a different state from a zero rating.
type Matrix struct {
	rows      map[string]*row
	users     []string
	items     []int
	itemIndex map[int]int
}

// NewMatrix pivots ratings into a Matrix. Non-positive scores are skipped and
// duplicate (user, item) pairs are averaged.
func NewMatrix(ratings []Rating) *Matrix {
	type acc struct {
		sum   float64
		count int
	}

	cells := make(map[string]map[int]*acc)
	itemSet := make(map[int]struct{})

	for _, r := range ratings {
		if r.Score <= 0 {
			continue
		}
		userCells, ok := cells[r.UserID]
		if !ok {
			userCells = make(map[int]*acc)
			cells[r.UserID] = userCells
		}
		a, ok := userCells[r.ItemID]
		if !ok {
			a = &acc{}
			userCells[r.ItemID] = a
		}
		a.sum += r.Score
		a.count++
		itemSet[r.ItemID] = struct{}{}
	}

	m := &Matrix{
		rows:      make(map[string]*row, len(cells)),
		users:     lo.Keys(cells),
		items:     lo.Keys(itemSet),
		itemIndex: make(map[int]int, len(itemSet)),
	}
	slices.Sort(m.users)
	slices.Sort(m.items)
	for i, id := range m.items {
		m.itemIndex[id] = i
	}

	for user, userCells := range cells {
		items := lo.Keys(userCells)
		slices.Sort(items)

		rw := &row{
			items:  items,
			scores: make([]float64, len(items)),
			pos:    make(map[int]int, len(items)),
		}
		var sum float64
		for i, id := range items {
			a := userCells[id]
			rw.scores[i] = a.sum / float64(a.count)
			rw.pos[id] = i
			sum += rw.scores[i]
		}
		rw.mean = sum / float64(len(items))
		m.rows[user] = rw
	}

	return m
}

// Users returns user ids in ascending order.
func (m *Matrix) Users() []string {
	return m.users
}

// Items returns item ids in ascending order.
func (m *Matrix) Items() []int {
	return m.items
}

// ItemIndex returns the column position of an item.
func (m *Matrix) ItemIndex(itemID int) (int, bool) {
	i, ok := m.itemIndex[itemID]
	return i, ok
}

// HasUser reports whether the user has a row.
func (m *Matrix) HasUser(user string) bool {
	_, ok := m.rows[user]
	return ok
}

// Rating returns the known rating of a cell.
func (m *Matrix) Rating(user string, itemID int) (float64, bool) {
	rw, ok := m.rows[user]
	if !ok {
		return 0, false
	}
	return rw.rating(itemID)
}

// Mean returns the average of the user's known ratings.
func (m *Matrix) Mean(user string) (float64, bool) {
	rw, ok := m.rows[user]
	if !ok {
		return 0, false
	}
	return rw.mean, true
}

// RowSize returns the number of known ratings of a user.
func (m *Matrix) RowSize(user string) int {
	rw, ok := m.rows[user]
	if !ok {
		return 0
	}
	return len(rw.items)
}

// NormalizeStatus converts a list status label to snake case, so
// "Plan to Watch" and "plan_to_watch" compare equal.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(status), " ", "_"))
}

// TargetRatings converts the target's raw entries into rating triples under
// the configured zero-score policy. Entries without an item id, and entries
// whose final score is not positive, are dropped.
func TargetRatings(username string, entries []ListEntry, cfg *Config) []Rating {
	out := make([]Rating, 0, len(entries))
	for _, e := range entries {
		if e.ItemID <= 0 {
			continue
		}

		score := float64(e.Score)
		if e.Score == 0 {
			if cfg.Imputation != ImputeFromStatus {
				continue
			}
			imputed, ok := cfg.StatusScores[NormalizeStatus(e.Status)]
			if !ok {
				continue
			}
			score = imputed
		}
		if score <= 0 {
			continue
		}

		out = append(out, Rating{UserID: username, ItemID: e.ItemID, Score: score})
	}
	return out
}

// ActiveUsers returns the users with strictly more than threshold positive ratings.
func ActiveUsers(corpus []Rating, threshold int) map[string]struct{} {
	counts := make(map[string]int)
	for _, r := range corpus {
		if r.Score > 0 {
			counts[r.UserID]++
		}
	}

	active := make(map[string]struct{}, len(counts))
	for user, n := range counts {
		if n > threshold {
			active[user] = struct{}{}
		}
	}
	return active
}

// BuildMatrix filters the corpus to active users, merges in the target's
// converted entries and pivots the result. Historical rows stored under the
// target's own user id are replaced by the live list.
//
// It returns the matrix and the seen set: every item the target rated or had
// a score imputed for.
func BuildMatrix(corpus []Rating, target string, entries []ListEntry, cfg *Config) (*Matrix, mapset.Set[int], error) {
	mine := TargetRatings(target, entries, cfg)
	if len(mine) == 0 {
		return nil, nil, ErrNoRatableItems
	}

	active := ActiveUsers(corpus, cfg.ActivityThreshold)

	merged := make([]Rating, 0, len(corpus)+len(mine))
	for _, r := range corpus {
		if r.UserID == target || r.Score <= 0 {
			continue
		}
		if _, ok := active[r.UserID]; !ok {
			continue
		}
		merged = append(merged, r)
	}
	merged = append(merged, mine...)

	m := NewMatrix(merged)
	if !m.HasUser(target) {
		return nil, nil, ErrUserMatrixInconsistency
	}

	seen := mapset.NewThreadUnsafeSetWithSize[int](len(mine))
	for _, r := range mine {
		seen.Add(r.ItemID)
	}

	return m, seen, nil
}
