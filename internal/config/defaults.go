package config

import (
	"github.com/spf13/viper"

	"github.com/edgard/taskdigest/internal/digest"
	"github.com/edgard/taskdigest/internal/notion"
)

// Default values for configuration
const (
	DefaultLogLevel          = "info"
	DefaultLogJSON           = false
	DefaultDoneMarker        = "Done"
	DefaultPausedMarker      = "Pause"
	DefaultLookupConcurrency = digest.DefaultConcurrency
)

// DefaultCheckpoints are the morning and evening digest times.
var DefaultCheckpoints = []string{"09:00", "19:30"}

// setDefaults registers every key so that environment variables bind to it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	props := notion.DefaultPropertyNames()
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.database_id", "")
	v.SetDefault("notion.properties.title", props.Title)
	v.SetDefault("notion.properties.due", props.Due)
	v.SetDefault("notion.properties.status", props.Status)
	v.SetDefault("notion.properties.assignees", props.Assignees)
	v.SetDefault("notion.properties.email", props.Email)
	v.SetDefault("notion.properties.parent", props.Parent)

	v.SetDefault("slack.token", "")
	v.SetDefault("slack.channel", "")
	v.SetDefault("slack.api_url", "")

	v.SetDefault("status.done_marker", DefaultDoneMarker)
	v.SetDefault("status.paused_marker", DefaultPausedMarker)

	v.SetDefault("schedule.checkpoints", DefaultCheckpoints)
	v.SetDefault("schedule.location", "")

	v.SetDefault("digest.default_title", digest.DefaultTitle)
	sections := digest.DefaultSections()
	setSectionDefaults(v, "digest.sections.due_today", sections.DueToday)
	setSectionDefaults(v, "digest.sections.overdue", sections.Overdue)
	setSectionDefaults(v, "digest.sections.newly_created", sections.NewlyCreated)
	setSectionDefaults(v, "digest.sections.missing_due_date", sections.MissingDueDate)

	v.SetDefault("lookup_concurrency", DefaultLookupConcurrency)
	v.SetDefault("run_timeout", "0s")
}

func setSectionDefaults(v *viper.Viper, prefix string, s digest.Section) {
	v.SetDefault(prefix+".emoji", s.Emoji)
	v.SetDefault(prefix+".label", s.Label)
	v.SetDefault(prefix+".empty_text", s.EmptyText)
	v.SetDefault(prefix+".show_when_empty", s.ShowWhenEmpty)
}
