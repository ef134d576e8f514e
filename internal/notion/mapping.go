package notion

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	"github.com/edgard/taskdigest/internal/task"
)

// PropertyNames maps task fields to the database's property names.
type PropertyNames struct {
	Title     string
	Due       string
	Status    string
	Assignees string
	Email     string
	Parent    string
}

// DefaultPropertyNames matches a stock Notion task board with a "Member"
// relation to a people database.
func DefaultPropertyNames() PropertyNames {
	return PropertyNames{
		Title:     "Name",
		Due:       "Due",
		Status:    "Status",
		Assignees: "Member",
		Email:     "email",
		Parent:    "Parent task",
	}
}

type mapper struct {
	props   PropertyNames
	markers task.StatusMarkers
}

// toTask converts a database page. Missing or mistyped properties leave the
// corresponding field empty rather than failing.
func (m mapper) toTask(page *notionapi.Page) task.Task {
	status := statusLabels(page.Properties[m.props.Status])
	t := task.Task{
		ID:        string(page.ID),
		URL:       page.URL,
		Title:     titleText(page.Properties),
		Due:       dueDate(page.Properties[m.props.Due]),
		Status:    status,
		Category:  m.markers.Categorize(status),
		CreatedAt: page.CreatedTime,
		Assignees: relationIDs(page.Properties[m.props.Assignees]),
	}
	if m.props.Title != "" {
		if p, ok := page.Properties[m.props.Title].(*notionapi.TitleProperty); ok {
			t.Title = richText(p.Title)
		}
	}
	if m.props.Parent != "" {
		if parents := relationIDs(page.Properties[m.props.Parent]); len(parents) > 0 {
			t.ParentID = parents[0]
		}
	}
	return t
}

func (m mapper) toProfile(page *notionapi.Page) task.AssigneeProfile {
	profile := task.AssigneeProfile{ID: string(page.ID)}
	if p, ok := page.Properties[m.props.Email].(*notionapi.EmailProperty); ok {
		profile.Email = p.Email
	}
	return profile
}

// titleText returns the page's title property, whatever it is named. A
// configured title name takes precedence in toTask.
func titleText(props notionapi.Properties) string {
	for _, prop := range props {
		if p, ok := prop.(*notionapi.TitleProperty); ok {
			return richText(p.Title)
		}
	}
	return ""
}

func richText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.PlainText)
	}
	return b.String()
}

func dueDate(prop notionapi.Property) *task.DueDate {
	p, ok := prop.(*notionapi.DateProperty)
	if !ok || p.Date == nil {
		return nil
	}
	due := &task.DueDate{
		Start: calendarDate(p.Date.Start),
		End:   calendarDate(p.Date.End),
	}
	if due.Start == nil && due.End == nil {
		return nil
	}
	return due
}

// calendarDate keeps only the year, month and day as written by the API,
// in the offset the value was sent with.
func calendarDate(d *notionapi.Date) *civil.Date {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	if t.IsZero() {
		return nil
	}
	cd := civil.DateOf(t)
	return &cd
}

func statusLabels(prop notionapi.Property) []string {
	switch p := prop.(type) {
	case *notionapi.StatusProperty:
		if p.Status.Name == "" {
			return nil
		}
		return []string{p.Status.Name}
	case *notionapi.SelectProperty:
		if p.Select.Name == "" {
			return nil
		}
		return []string{p.Select.Name}
	case *notionapi.MultiSelectProperty:
		labels := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			labels = append(labels, opt.Name)
		}
		return labels
	default:
		return nil
	}
}

func relationIDs(prop notionapi.Property) []string {
	p, ok := prop.(*notionapi.RelationProperty)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(p.Relation))
	for _, rel := range p.Relation {
		ids = append(ids, string(rel.ID))
	}
	return ids
}
