// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/tomtom215/animerec/internal/models"
)

func renderRecommendations(w io.Writer, resp *models.RecommendationsResponse) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Title", "Score", "Mean", "Genres")
	for i, rec := range resp.Recommendations {
		mean := "-"
		if rec.Mean != nil {
			mean = strconv.FormatFloat(*rec.Mean, 'f', 2, 64)
		}
		genres := lo.Map(rec.Genres, func(g models.Genre, _ int) string { return g.Name })
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rec.ID),
			rec.Title,
			strconv.FormatFloat(rec.Score, 'f', 2, 64),
			mean,
			strings.Join(genres, ", "),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderAnimeList(w io.Writer, resp *models.AnimeListResponse) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Status", "Score")
	for _, e := range resp.List {
		score := "-"
		if e.Score > 0 {
			score = strconv.Itoa(e.Score)
		}
		if err := table.Append([]string{strconv.Itoa(e.ID), e.Title, e.Status, score}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderCorpus(w io.Writer, source string, stats models.CorpusStats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Stat", "Value")
	rows := [][]string{
		{"source", source},
		{"ratings", strconv.Itoa(stats.Ratings)},
		{"users", strconv.Itoa(stats.Users)},
		{"items", strconv.Itoa(stats.Items)},
		{"titles", strconv.Itoa(stats.Titles)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
