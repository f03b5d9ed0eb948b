// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/animerec/internal/recommender"
)

// errNoCorpus is returned by commands that need the corpus when it failed
// to import.
var errNoCorpus = errors.New("corpus unavailable")

func (c *cli) recommendCommand() *cobra.Command {
	var (
		asJSON bool
		top    int
	)
	cmd := &cobra.Command{
		Use:   "recommend <username>",
		Short: "Recommend anime for a MyAnimeList user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username is empty")
			}
			if top > 0 {
				c.cfg.Recommend.TopN = top
			}
			ctx, cancel := c.requestContext(cmd.Context())
			defer cancel()

			return c.withBackend(ctx, func(rt *backend) error {
				resp, err := rt.service.Recommend(ctx, username)
				if err != nil {
					return fmt.Errorf("%s: %w", recommender.ResultCode(err), err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), resp)
				}
				return renderRecommendations(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON response body")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "number of recommendations (default recommend.top_n)")
	return cmd
}

func (c *cli) animeListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "animelist <username>",
		Short: "Show a user's MyAnimeList list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.requestContext(cmd.Context())
			defer cancel()

			return c.withBackend(ctx, func(rt *backend) error {
				resp, err := rt.service.AnimeList(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), resp)
				}
				return renderAnimeList(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON response body")
	return cmd
}

func (c *cli) corpusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "corpus",
		Short: "Import the corpus and print its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withBackend(cmd.Context(), func(rt *backend) error {
				if rt.corpus == nil {
					return errNoCorpus
				}
				stats, err := rt.corpus.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return renderCorpus(cmd.OutOrStdout(), c.cfg.Corpus.Source, stats)
			})
		},
	}
}

// configCommand prints the effective configuration with secrets masked.
func (c *cli) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *c.cfg
			if cfg.MAL.AccessToken != "" {
				cfg.MAL.AccessToken = "********"
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func (c *cli) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if c.cfg.Server.RequestTimeout > 0 {
		return context.WithTimeout(parent, c.cfg.Server.RequestTimeout)
	}
	return context.WithCancel(parent)
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
