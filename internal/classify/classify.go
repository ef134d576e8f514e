// Package classify sorts tasks into digest buckets and computes the cutoff
// separating this run from the previous scheduled one.
package classify

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/edgard/taskdigest/internal/task"
)

// Buckets holds the outcome of every predicate. Buckets are evaluated
// independently, so a task may appear in more than one.
type Buckets struct {
	DueToday       []task.Task
	Overdue        []task.Task
	NewlyCreated   []task.Task
	MissingDueDate []task.Task
}

// Total returns the number of bucket entries, counting overlaps twice.
func (b Buckets) Total() int {
	return len(b.DueToday) + len(b.Overdue) + len(b.NewlyCreated) + len(b.MissingDueDate)
}

// Classify evaluates every predicate against the full task list. Order within
// each bucket follows input order.
func Classify(tasks []task.Task, now, cutoff time.Time) Buckets {
	today := civil.DateOf(now)

	var b Buckets
	for _, t := range tasks {
		if DueToday(t, today) {
			b.DueToday = append(b.DueToday, t)
		}
		if Overdue(t, today) {
			b.Overdue = append(b.Overdue, t)
		}
		if NewlyCreated(t, cutoff) {
			b.NewlyCreated = append(b.NewlyCreated, t)
		}
		if MissingDueDate(t) {
			b.MissingDueDate = append(b.MissingDueDate, t)
		}
	}
	return b
}

// MissingDueDate reports an open task without any due date.
func MissingDueDate(t task.Task) bool {
	return t.IsOpen() && !t.HasDueDate()
}

// DueToday reports an open task whose effective due date is today.
func DueToday(t task.Task, today civil.Date) bool {
	if !t.IsOpen() {
		return false
	}
	due, ok := t.Due.Effective()
	return ok && due == today
}

// Overdue reports an open task whose effective due date is strictly before
// today. Only calendar dates are compared.
func Overdue(t task.Task, today civil.Date) bool {
	if !t.IsOpen() {
		return false
	}
	due, ok := t.Due.Effective()
	return ok && due.Before(today)
}

// NewlyCreated reports an open task created strictly after cutoff.
func NewlyCreated(t task.Task, cutoff time.Time) bool {
	return t.IsOpen() && t.CreatedAt.After(cutoff)
}
