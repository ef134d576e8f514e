package config

import (
	"github.com/edgard/taskdigest/internal/classify"
	"github.com/edgard/taskdigest/internal/digest"
	"github.com/edgard/taskdigest/internal/notion"
	"github.com/edgard/taskdigest/internal/slack"
	"github.com/edgard/taskdigest/internal/task"
)

// StatusMarkers returns the done/paused markers used at ingestion.
func (c *Config) StatusMarkers() task.StatusMarkers {
	return task.StatusMarkers{Done: c.Status.DoneMarker, Paused: c.Status.PausedMarker}
}

// NotionClientConfig builds the task repository's configuration.
func (c *Config) NotionClientConfig() notion.Config {
	p := c.Notion.Properties
	return notion.Config{
		Token: c.Notion.Token,
		Properties: notion.PropertyNames{
			Title:     p.Title,
			Due:       p.Due,
			Status:    p.Status,
			Assignees: p.Assignees,
			Email:     p.Email,
			Parent:    p.Parent,
		},
		Markers: c.StatusMarkers(),
	}
}

// SlackClientConfig builds the messaging gateway's configuration.
func (c *Config) SlackClientConfig() slack.Config {
	return slack.Config{Token: c.Slack.Token, APIURL: c.Slack.APIURL}
}

// DigestOptions builds the composer's options.
func (c *Config) DigestOptions() digest.Options {
	s := c.Digest.Sections
	return digest.Options{
		DefaultTitle: c.Digest.DefaultTitle,
		Concurrency:  c.LookupConcurrency,
		Sections: digest.Sections{
			DueToday:       s.DueToday.section(),
			Overdue:        s.Overdue.section(),
			NewlyCreated:   s.NewlyCreated.section(),
			MissingDueDate: s.MissingDueDate.section(),
		},
	}
}

// ScheduleSpec parses the checkpoints. Validate has already accepted them.
func (c *Config) ScheduleSpec() (classify.Schedule, error) {
	return classify.ParseSchedule(c.Schedule.Checkpoints)
}

func (s SectionConfig) section() digest.Section {
	return digest.Section{
		Emoji:         s.Emoji,
		Label:         s.Label,
		EmptyText:     s.EmptyText,
		ShowWhenEmpty: s.ShowWhenEmpty,
	}
}
