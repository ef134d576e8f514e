package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/taskdigest/internal/classify"
	"github.com/edgard/taskdigest/internal/logger"
)

// ErrUnknownLocation is returned for a zone the cron parser cannot resolve
// by name, such as a time.FixedZone.
var ErrUnknownLocation = errors.New("unknown schedule location")

// ScheduledTaskFunc is the function the scheduler runs at every checkpoint.
// The context is cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// Scheduler fires a task at each daily checkpoint using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	schedule  classify.Schedule
	task      ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler that evaluates checkpoints in loc. gocron
// hands cron expressions to its parser with the zone's name, so loc must be
// loadable by name.
func NewScheduler(log *slog.Logger, schedule classify.Schedule, loc *time.Location, task ScheduledTaskFunc) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	if task == nil {
		return nil, fmt.Errorf("scheduled task cannot be nil")
	}
	if _, err := time.LoadLocation(loc.String()); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownLocation, loc.String(), err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithLogger(logger.NewGocronLogger(log)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log.With("component", "scheduler"),
		schedule:  schedule,
		task:      task,
	}, nil
}

// Start registers one job per checkpoint and starts ticking. Jobs run in
// singleton mode so a slow run is never overlapped by the next checkpoint.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	checkpoints := s.schedule.Checkpoints()
	if len(checkpoints) == 0 {
		return fmt.Errorf("no checkpoints configured")
	}

	for _, cp := range checkpoints {
		name := "digest@" + cp.String()
		_, err := s.scheduler.NewJob(
			gocron.CronJob(cp.CronExpression(), false),
			gocron.NewTask(
				func(ctx context.Context, name string) {
					s.logger.Info("Running scheduled digest", "job", name)
					startTime := time.Now()
					if taskErr := s.task(ctx); taskErr != nil {
						s.logger.Error("Scheduled digest failed", "job", name, "error", taskErr)
					}
					s.logger.Info("Finished scheduled digest", "job", name, "duration", time.Since(startTime))
				},
				ctx,
				name,
			),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		s.logger.Info("Scheduled digest", "job", name, "cron", cp.CronExpression())
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "jobs", len(checkpoints))
	return nil
}

// NextRuns returns the next run time of every job, earliest first.
func (s *Scheduler) NextRuns() ([]time.Time, error) {
	jobs := s.scheduler.Jobs()
	runs := make([]time.Time, 0, len(jobs))
	for _, j := range jobs {
		next, err := j.NextRun()
		if err != nil {
			return nil, fmt.Errorf("failed to get next run of %s: %w", j.Name(), err)
		}
		runs = append(runs, next)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Before(runs[j]) })
	return runs, nil
}

// Stop shuts the scheduler down, waiting for a running digest to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	if err != nil {
		s.logger.Error("Digest scheduler shutdown failed", "error", err)
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info("Digest scheduler stopped")
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	if next, err := s.NextRuns(); err == nil && len(next) > 0 {
		s.logger.Info("Waiting for next checkpoint", "next_run", next[0].Format(time.RFC3339))
	}

	<-ctx.Done()
	s.logger.Info("Context cancelled, stopping digest scheduler")
	return s.Stop()
}
