package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/edgard/taskdigest/internal/classify"
	"github.com/edgard/taskdigest/internal/logger"
	"github.com/edgard/taskdigest/internal/notifier"
)

func TestScheduler_RegistersOneJobPerCheckpoint(t *testing.T) {
	t.Parallel()

	sched, err := classify.ParseSchedule([]string{"19:30", "09:00"})
	if err != nil {
		t.Fatalf("ParseSchedule() error = %v", err)
	}
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	s, err := notifier.NewScheduler(logger.Discard(), sched, loc, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}

	runs, err := s.NextRuns()
	if err != nil {
		t.Fatalf("NextRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("NextRuns() = %v, want 2 runs", runs)
	}

	seen := map[string]bool{}
	for _, r := range runs {
		seen[r.In(loc).Format("15:04")] = true
	}
	if !seen["09:00"] || !seen["19:30"] {
		t.Errorf("NextRuns() times = %v, want 09:00 and 19:30", runs)
	}
	if runs[1].Before(runs[0]) {
		t.Errorf("NextRuns() not sorted: %v", runs)
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	t.Parallel()

	sched, _ := classify.ParseSchedule([]string{"09:00"})
	s, err := notifier.NewScheduler(logger.Discard(), sched, nil, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	sched, _ := classify.ParseSchedule([]string{"09:00"})
	s, err := notifier.NewScheduler(logger.Discard(), sched, time.UTC, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewScheduler_RequiresTask(t *testing.T) {
	t.Parallel()

	sched, _ := classify.ParseSchedule([]string{"09:00"})
	if _, err := notifier.NewScheduler(nil, sched, nil, nil); err == nil {
		t.Error("NewScheduler() with nil task should fail")
	}
}

func TestNewScheduler_Location(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	tests := []struct {
		name    string
		loc     *time.Location
		wantErr bool
	}{
		{name: "host zone", loc: time.Local},
		{name: "utc", loc: time.UTC},
		{name: "named zone", loc: tokyo},
		{name: "default when nil", loc: nil},
		{name: "fixed offset zone", loc: time.FixedZone("JST", 9*60*60), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched, _ := classify.ParseSchedule([]string{"09:00", "19:30"})
			s, err := notifier.NewScheduler(logger.Discard(), sched, tt.loc, func(context.Context) error { return nil })
			if tt.wantErr {
				if !errors.Is(err, notifier.ErrUnknownLocation) {
					t.Fatalf("NewScheduler() error = %v, want ErrUnknownLocation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewScheduler() error = %v", err)
			}
			if err := s.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			if err := s.Stop(); err != nil {
				t.Errorf("Stop() error = %v", err)
			}
		})
	}
}
