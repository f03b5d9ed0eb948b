// Animerec - Anime Recommendations from MyAnimeList Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Command animerec runs the recommendation pipeline from the terminal,
// without the HTTP server.
//
//	animerec recommend some_user
//	animerec recommend some_user --top 20 --json
//	animerec animelist some_user
//	animerec corpus
//	animerec config
package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/animerec/internal/app"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/models"
)

var version = "dev"

// service is the part of the application the commands use.
type service interface {
	Recommend(ctx context.Context, username string) (*models.RecommendationsResponse, error)
	AnimeList(ctx context.Context, username string) (*models.AnimeListResponse, error)
}

// corpusStats reports on the imported corpus.
type corpusStats interface {
	Stats(ctx context.Context) (models.CorpusStats, error)
}

// backend is what a command works against once the configuration is loaded.
type backend struct {
	service service
	corpus  corpusStats
	close   func() error
}

type (
	configLoader func() (*config.Config, error)
	opener       func(ctx context.Context, cfg *config.Config) (*backend, error)
)

func openApp(ctx context.Context, cfg *config.Config) (*backend, error) {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rt := &backend{service: a.Service, close: a.Close}
	if a.DB != nil {
		rt.corpus = a.DB
	}
	return rt, nil
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr, config.Load, openApp)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the shared state of one invocation.
type cli struct {
	load    configLoader
	open    opener
	cfg     *config.Config
	verbose bool
	stderr  io.Writer
}

func newRootCommand(stdout, stderr io.Writer, load configLoader, open opener) *cobra.Command {
	c := &cli{load: load, open: open, stderr: stderr}

	root := &cobra.Command{
		Use:           "animerec",
		Short:         "Anime recommendations from MyAnimeList ratings",
		Long:          "User-based collaborative filtering over a DuckDB corpus of MyAnimeList lists.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String("config", "", "config file (overrides "+config.ConfigPathEnvVar+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.recommendCommand(),
		c.animeListCommand(),
		c.corpusCommand(),
		c.configCommand(),
		versionCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
			return err
		}
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: c.stderr})
	return nil
}

// withBackend opens the application for the duration of fn.
func (c *cli) withBackend(ctx context.Context, fn func(*backend) error) error {
	rt, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if rt.close == nil {
			return
		}
		if err := rt.close(); err != nil {
			logging.Warn().Err(err).Msg("close failed")
		}
	}()
	return fn(rt)
}
