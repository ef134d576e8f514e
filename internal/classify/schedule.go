package classify

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidCheckpoint is returned when a checkpoint is not a valid HH:MM time.
var ErrInvalidCheckpoint = errors.New("invalid checkpoint")

// Checkpoint is a time of day, at minute resolution, at which a run is scheduled.
type Checkpoint struct {
	Hour   int
	Minute int
}

// ParseCheckpoint parses "HH:MM" in 24-hour form.
func ParseCheckpoint(s string) (Checkpoint, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("%w %q: %v", ErrInvalidCheckpoint, s, err)
	}
	return Checkpoint{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// CronExpression returns a five-field cron spec firing daily at the checkpoint.
func (c Checkpoint) CronExpression() string {
	return fmt.Sprintf("%d %d * * *", c.Minute, c.Hour)
}

func (c Checkpoint) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Checkpoint) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// Schedule is a non-empty, sorted set of daily checkpoints.
type Schedule struct {
	checkpoints []Checkpoint
}

// ParseSchedule builds a Schedule from "HH:MM" strings. Duplicates collapse.
func ParseSchedule(specs []string) (Schedule, error) {
	if len(specs) == 0 {
		return Schedule{}, fmt.Errorf("%w: schedule needs at least one checkpoint", ErrInvalidCheckpoint)
	}

	seen := make(map[int]bool, len(specs))
	checkpoints := make([]Checkpoint, 0, len(specs))
	for _, spec := range specs {
		c, err := ParseCheckpoint(spec)
		if err != nil {
			return Schedule{}, err
		}
		if seen[c.minutes()] {
			continue
		}
		seen[c.minutes()] = true
		checkpoints = append(checkpoints, c)
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].minutes() < checkpoints[j].minutes()
	})
	return Schedule{checkpoints: checkpoints}, nil
}

// Checkpoints returns the checkpoints in ascending order.
func (s Schedule) Checkpoints() []Checkpoint {
	out := make([]Checkpoint, len(s.checkpoints))
	copy(out, s.checkpoints)
	return out
}

// PreviousCheckpoint returns the start of the window containing now. Windows
// are half-open, [c_i, c_i+1), so an instant exactly on a checkpoint belongs
// to the window that checkpoint opens. Before the first checkpoint of the day
// the previous day's last checkpoint is returned. The result is in now's
// location.
func (s Schedule) PreviousCheckpoint(now time.Time) time.Time {
	if len(s.checkpoints) == 0 {
		return now
	}

	for i := len(s.checkpoints) - 1; i >= 0; i-- {
		at := s.checkpoints[i].on(now)
		if !now.Before(at) {
			return at
		}
	}

	last := s.checkpoints[len(s.checkpoints)-1]
	return last.on(now.AddDate(0, 0, -1))
}
