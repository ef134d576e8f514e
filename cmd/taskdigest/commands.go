package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/taskdigest/internal/config"
	"github.com/edgard/taskdigest/internal/digest"
	"github.com/edgard/taskdigest/internal/logger"
	"github.com/edgard/taskdigest/internal/notifier"
	"github.com/edgard/taskdigest/internal/notion"
	"github.com/edgard/taskdigest/internal/slack"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "taskdigest",
		Short: "Post a digest of open Notion tasks to Slack",
		Long: `taskdigest reads the tasks of a Notion database, groups the open ones
into due today, overdue, new since the last checkpoint and missing a due
date, and posts the result once to a Slack channel.

Use "run" from an external scheduler or "serve" to fire at every
configured checkpoint in-process.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default ./config.yaml if present)")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compose and send one digest now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}

			n, err := newNotifier(cfg, log, notifier.Options{
				DryRun: dryRun,
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			if _, err := n.Run(cmd.Context(), time.Now()); err != nil {
				log.Error("Digest run failed", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the digest to stdout instead of sending it")
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Send a digest at every configured checkpoint until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}

			n, err := newNotifier(cfg, log, notifier.Options{})
			if err != nil {
				return err
			}

			schedule, err := cfg.ScheduleSpec()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			sched, err := notifier.NewScheduler(log, schedule, loc, n.Task())
			if err != nil {
				log.Error("Failed to create scheduler", "error", err)
				return err
			}

			log.Info("Starting digest scheduler...")
			runErr := sched.Run(cmd.Context())
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				log.Error("Scheduler stopped due to error", "error", runErr)
				return runErr
			}
			log.Info("Scheduler stopped gracefully.")
			return nil
		},
	}
}

// setup loads the configuration and installs the logger.
func setup(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return nil, nil, err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Debug("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)
	return cfg, log, nil
}

// newNotifier wires the Notion repository, the Slack gateway and the
// composer into a Notifier. Fields of opts that come from configuration
// are overwritten.
func newNotifier(cfg *config.Config, log *slog.Logger, opts notifier.Options) (*notifier.Notifier, error) {
	repo, err := notion.NewClient(cfg.NotionClientConfig(), log)
	if err != nil {
		log.Error("Failed to initialize Notion client", "error", err)
		return nil, err
	}

	messenger, err := slack.NewClient(cfg.SlackClientConfig(), log)
	if err != nil {
		log.Error("Failed to initialize Slack client", "error", err)
		return nil, err
	}

	schedule, err := cfg.ScheduleSpec()
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}

	opts.CollectionID = cfg.Notion.DatabaseID
	opts.Channel = cfg.Slack.Channel
	opts.Schedule = schedule
	opts.Location = loc
	opts.Timeout = cfg.RunTimeout

	composer := digest.NewComposer(repo, cfg.DigestOptions(), log)
	return notifier.New(repo, messenger, composer, opts, log), nil
}
