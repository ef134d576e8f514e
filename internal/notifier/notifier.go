// Package notifier runs the digest job: it reads tasks, classifies them,
// composes the digest and posts it once. It also hosts the in-process
// scheduler used by the serve command.
package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/taskdigest/internal/classify"
	"github.com/edgard/taskdigest/internal/digest"
	"github.com/edgard/taskdigest/internal/task"
)

// TaskRepository is the structured-database side of the job.
type TaskRepository interface {
	digest.Lookup
	ListTasks(ctx context.Context, collectionID string) ([]task.Task, error)
}

// Messenger is the messaging side of the job.
type Messenger interface {
	ListMembers(ctx context.Context) ([]task.Member, error)
	SendMessage(ctx context.Context, channel, text string) error
}

// Options configures a Notifier.
type Options struct {
	CollectionID string
	Channel      string
	Schedule     classify.Schedule
	// Location is the zone "today" and checkpoints are evaluated in.
	// Defaults to the host zone.
	Location *time.Location
	// Timeout caps one run; zero means no limit.
	Timeout time.Duration
	// DryRun writes the digest to Output instead of sending it.
	DryRun bool
	Output io.Writer
}

// Report summarizes a completed run.
type Report struct {
	RunID   string
	Now     time.Time
	Cutoff  time.Time
	Tasks   int
	Buckets classify.Buckets
	Message string
	Sent    bool
}

// Notifier sequences one digest run.
type Notifier struct {
	repo      TaskRepository
	messenger Messenger
	composer  *digest.Composer
	opts      Options
	logger    *slog.Logger
}

// New creates a Notifier.
func New(repo TaskRepository, messenger Messenger, composer *digest.Composer, opts Options, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Notifier{
		repo:      repo,
		messenger: messenger,
		composer:  composer,
		opts:      opts,
		logger:    logger.With("component", "notifier"),
	}
}

// Run performs one digest run as of now. Any failure aborts the run before
// anything is sent, so the channel never sees a partial digest.
func (n *Notifier) Run(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{
		RunID: uuid.NewString(),
		Now:   now.In(n.opts.Location),
	}
	log := n.logger.With("run_id", report.RunID)

	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	log.InfoContext(ctx, "Starting digest run", "now", report.Now.Format(time.RFC3339), "dry_run", n.opts.DryRun)

	tasks, err := n.repo.ListTasks(ctx, n.opts.CollectionID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	report.Tasks = len(tasks)

	report.Cutoff = n.opts.Schedule.PreviousCheckpoint(report.Now)
	report.Buckets = classify.Classify(tasks, report.Now, report.Cutoff)
	log.InfoContext(ctx, "Classified tasks",
		"tasks", report.Tasks,
		"cutoff", report.Cutoff.Format(time.RFC3339),
		"due_today", len(report.Buckets.DueToday),
		"overdue", len(report.Buckets.Overdue),
		"newly_created", len(report.Buckets.NewlyCreated),
		"missing_due_date", len(report.Buckets.MissingDueDate))

	members, err := n.messenger.ListMembers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list messaging members", "error", err)
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	roster := task.NewRoster(members)
	log.DebugContext(ctx, "Fetched roster", "members", len(members), "addressable", roster.Len())

	report.Message, err = n.composer.ComposeDigest(ctx, report.Buckets, roster)
	if err != nil {
		log.ErrorContext(ctx, "Failed to compose digest", "error", err)
		return nil, fmt.Errorf("failed to compose digest: %w", err)
	}

	switch {
	case report.Message == "":
		log.WarnContext(ctx, "Digest is empty, nothing to send")
	case n.opts.DryRun:
		if _, err := fmt.Fprintln(n.opts.Output, report.Message); err != nil {
			return nil, fmt.Errorf("failed to write digest: %w", err)
		}
	default:
		if err := n.messenger.SendMessage(ctx, n.opts.Channel, report.Message); err != nil {
			log.ErrorContext(ctx, "Failed to send digest", "channel", n.opts.Channel, "error", err)
			return nil, fmt.Errorf("failed to send digest: %w", err)
		}
		report.Sent = true
	}

	log.InfoContext(ctx, "Digest run completed",
		"sent", report.Sent,
		"message_bytes", len(report.Message),
		"duration", time.Since(startTime))
	return report, nil
}

// Task adapts Run to the scheduler, evaluating each run at the current time.
func (n *Notifier) Task() ScheduledTaskFunc {
	return func(ctx context.Context) error {
		_, err := n.Run(ctx, time.Now())
		return err
	}
}
