// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package recommend implements user-based collaborative filtering over a sparse
// user x item rating matrix.
//
// # Pipeline
//
// A recommendation request runs five synchronous stages, each in its own file:
//
//   - Matrix Builder (matrix.go): activity filter, zero-score policy, merge and pivot
//   - Similarity Engine (similarity.go): mean-centered cosine with co-rating shrinkage
//   - Neighborhood Selector (neighborhood.go): positive weights only, top K
//   - Rating Predictor (predict.go): weighted mean deviation with minimum support
//   - Ranker/Presenter (rank.go): top N plus metadata lookup
//
// # Design Principles
//
//   - Deterministic: rows are stored with sorted item ids, so every floating point
//     sum runs in the same order and repeated runs are byte-identical
//   - Request scoped: nothing computed here outlives a single Recommend call
//   - Unknown is not zero: a missing cell never participates in a mean
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetMetadataLookup(catalog)
//
//	result, err := engine.Recommend(ctx, recommend.Request{
//	    Username: "someone",
//	    Entries:  entries,
//	    Corpus:   corpus,
//	})
//	if recommend.IsEmptyResult(err) {
//	    // no similar users or nothing predictable
//	}
//
// # Thread Safety
//
// The engine holds no per-request state. Concurrent calls may share the same
// corpus slice because it is only read.
package recommend
