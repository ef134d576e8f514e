package notion

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	"github.com/edgard/taskdigest/internal/task"
)

func notionDate(t time.Time) *notionapi.Date {
	d := notionapi.Date(t)
	return &d
}

func testMapper() mapper {
	return mapper{
		props:   DefaultPropertyNames(),
		markers: task.StatusMarkers{Done: "Done", Paused: "Pause"},
	}
}

func TestMapper_ToTask(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC)
	page := &notionapi.Page{
		ID:          "task-1",
		URL:         "https://www.notion.so/task-1",
		CreatedTime: created,
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{
				{PlainText: "Write "}, {PlainText: "release notes"},
			}},
			"Due": &notionapi.DateProperty{Date: &notionapi.DateObject{
				Start: notionDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
				End:   notionDate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)),
			}},
			"Status": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{
				{Name: "Review"}, {Name: "✅Done"},
			}},
			"Member": &notionapi.RelationProperty{Relation: []notionapi.Relation{
				{ID: "p-bob"}, {ID: "p-alice"},
			}},
			"Parent task": &notionapi.RelationProperty{Relation: []notionapi.Relation{{ID: "parent-1"}}},
		},
	}

	got := testMapper().toTask(page)

	if got.ID != "task-1" || got.URL != "https://www.notion.so/task-1" {
		t.Errorf("ID/URL = %q/%q", got.ID, got.URL)
	}
	if got.Title != "Write release notes" {
		t.Errorf("Title = %q, want %q", got.Title, "Write release notes")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	due, ok := got.Due.Effective()
	if !ok || due != (civil.Date{Year: 2024, Month: 5, Day: 10}) {
		t.Errorf("Due.Effective() = (%v, %v), want 2024-05-10", due, ok)
	}
	if got.Category != task.CategoryDone {
		t.Errorf("Category = %v, want done", got.Category)
	}
	if len(got.Assignees) != 2 || got.Assignees[0] != "p-bob" || got.Assignees[1] != "p-alice" {
		t.Errorf("Assignees = %v, want [p-bob p-alice]", got.Assignees)
	}
	if got.ParentID != "parent-1" {
		t.Errorf("ParentID = %q, want parent-1", got.ParentID)
	}
}

func TestMapper_ToTask_MissingProperties(t *testing.T) {
	t.Parallel()

	page := &notionapi.Page{ID: "bare", Properties: notionapi.Properties{
		"Due": &notionapi.DateProperty{},
	}}

	got := testMapper().toTask(page)
	if got.Title != "" || got.Due != nil || got.ParentID != "" || len(got.Assignees) != 0 {
		t.Errorf("unexpected values for bare page: %+v", got)
	}
	if got.Category != task.CategoryOpen {
		t.Errorf("Category = %v, want open", got.Category)
	}
}

func TestDueDate_KeepsCalendarDateOfOffset(t *testing.T) {
	t.Parallel()

	// 00:30 at +09:00 is still the previous day in UTC.
	jst := time.FixedZone("JST", 9*60*60)
	prop := &notionapi.DateProperty{Date: &notionapi.DateObject{
		Start: notionDate(time.Date(2024, 5, 10, 0, 30, 0, 0, jst)),
	}}

	due := dueDate(prop)
	got, ok := due.Effective()
	if !ok || got != (civil.Date{Year: 2024, Month: 5, Day: 10}) {
		t.Errorf("Effective() = (%v, %v), want 2024-05-10", got, ok)
	}
}

func TestStatusLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prop     notionapi.Property
		expected []string
	}{
		{name: "status", prop: &notionapi.StatusProperty{Status: notionapi.Status{Name: "Paused"}}, expected: []string{"Paused"}},
		{name: "select", prop: &notionapi.SelectProperty{Select: notionapi.Option{Name: "Doing"}}, expected: []string{"Doing"}},
		{name: "empty select", prop: &notionapi.SelectProperty{}, expected: nil},
		{name: "multi select", prop: &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "A"}, {Name: "B"}}}, expected: []string{"A", "B"}},
		{name: "unsupported", prop: &notionapi.EmailProperty{Email: "x"}, expected: nil},
		{name: "absent", prop: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := statusLabels(tt.prop)
			if len(got) != len(tt.expected) {
				t.Fatalf("statusLabels() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("statusLabels()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMapper_ToProfile(t *testing.T) {
	t.Parallel()

	page := &notionapi.Page{ID: "p-alice", Properties: notionapi.Properties{
		"email": &notionapi.EmailProperty{Email: "alice@example.com"},
	}}
	got := testMapper().toProfile(page)
	if got.ID != "p-alice" || got.Email != "alice@example.com" {
		t.Errorf("toProfile() = %+v", got)
	}

	empty := testMapper().toProfile(&notionapi.Page{ID: "p-none"})
	if empty.Email != "" {
		t.Errorf("toProfile() without email = %+v", empty)
	}
}
