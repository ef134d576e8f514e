// Package task defines the task, assignee and roster models shared by the
// gateways, the classifier and the digest composer.
package task

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Category is the lifecycle bucket a task's status belongs to. It is decided
// once when the task is read from the repository.
type Category int

const (
	CategoryOpen Category = iota
	CategoryDone
	CategoryPaused
)

func (c Category) String() string {
	switch c {
	case CategoryDone:
		return "done"
	case CategoryPaused:
		return "paused"
	default:
		return "open"
	}
}

// DueDate is an optional calendar date range. Either bound may be nil.
type DueDate struct {
	Start *civil.Date
	End   *civil.Date
}

// Effective returns the date a task is considered due on: the end of the
// range when present, otherwise its start.
func (d *DueDate) Effective() (civil.Date, bool) {
	if d == nil {
		return civil.Date{}, false
	}
	if d.End != nil {
		return *d.End, true
	}
	if d.Start != nil {
		return *d.Start, true
	}
	return civil.Date{}, false
}

// Task is a single record read from the task repository.
type Task struct {
	ID        string
	URL       string
	Title     string
	Due       *DueDate
	Status    []string
	Category  Category
	CreatedAt time.Time
	Assignees []string
	ParentID  string
}

// IsOpen reports whether the task is neither done nor paused.
func (t Task) IsOpen() bool {
	return t.Category == CategoryOpen
}

// HasDueDate reports whether the task carries any due date bound.
func (t Task) HasDueDate() bool {
	_, ok := t.Due.Effective()
	return ok
}

// AssigneeProfile is the repository-side profile of an assignee.
type AssigneeProfile struct {
	ID    string
	Email string
}

// Member is one entry of the messaging roster.
type Member struct {
	ID    string
	Email string
}

// Roster is the immutable snapshot of messaging members for one run.
type Roster struct {
	byEmail map[string]string
}

// NewRoster indexes members by email. Members without an email are skipped;
// when two members share an email the first one wins.
func NewRoster(members []Member) *Roster {
	byEmail := make(map[string]string, len(members))
	for _, m := range members {
		if m.Email == "" {
			continue
		}
		if _, exists := byEmail[m.Email]; !exists {
			byEmail[m.Email] = m.ID
		}
	}
	return &Roster{byEmail: byEmail}
}

// Lookup returns the member ID for an exact, case-sensitive email match.
func (r *Roster) Lookup(email string) (string, bool) {
	if r == nil || email == "" {
		return "", false
	}
	id, ok := r.byEmail[email]
	return id, ok
}

// Len returns the number of addressable members.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byEmail)
}

// StatusMarkers holds the substrings that place a status label in the done or
// paused category.
type StatusMarkers struct {
	Done   string
	Paused string
}

// Categorize maps raw status labels to a Category. Matching is a
// case-sensitive substring test so compound labels such as "Done (QA)" still
// count. Done takes precedence over paused; an empty marker never matches.
func (m StatusMarkers) Categorize(labels []string) Category {
	paused := false
	for _, label := range labels {
		if m.Done != "" && strings.Contains(label, m.Done) {
			return CategoryDone
		}
		if m.Paused != "" && strings.Contains(label, m.Paused) {
			paused = true
		}
	}
	if paused {
		return CategoryPaused
	}
	return CategoryOpen
}
