// Package config loads, defaults and validates the digest job's settings
// from config.yaml and TASKDIGEST_* environment variables.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every loading and validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete job configuration. Credentials live here and are
// handed to each gateway's constructor; nothing else reads the environment.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Status   StatusConfig   `mapstructure:"status"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Digest   DigestConfig   `mapstructure:"digest"`

	// LookupConcurrency bounds parallel lookups at each fan-out level.
	LookupConcurrency int `mapstructure:"lookup_concurrency" validate:"min=1,max=64"`
	// RunTimeout caps a whole run; zero disables it.
	RunTimeout time.Duration `mapstructure:"run_timeout" validate:"min=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// NotionConfig selects the task database and its property names.
type NotionConfig struct {
	Token      string                 `mapstructure:"token"       validate:"required"`
	DatabaseID string                 `mapstructure:"database_id" validate:"required"`
	Properties NotionPropertiesConfig `mapstructure:"properties"`
}

// NotionPropertiesConfig names the database properties read for each task.
type NotionPropertiesConfig struct {
	Title     string `mapstructure:"title"`
	Due       string `mapstructure:"due"       validate:"required"`
	Status    string `mapstructure:"status"    validate:"required"`
	Assignees string `mapstructure:"assignees" validate:"required"`
	Email     string `mapstructure:"email"     validate:"required"`
	Parent    string `mapstructure:"parent"`
}

// SlackConfig selects the workspace and target channel.
type SlackConfig struct {
	Token   string `mapstructure:"token"   validate:"required"`
	Channel string `mapstructure:"channel" validate:"required"`
	APIURL  string `mapstructure:"api_url" validate:"omitempty,url"`
}

// StatusConfig holds the substrings that mark a status as done or paused.
type StatusConfig struct {
	DoneMarker   string `mapstructure:"done_marker"   validate:"required"`
	PausedMarker string `mapstructure:"paused_marker"`
}

// ScheduleConfig lists the daily checkpoints and the zone they are read in.
type ScheduleConfig struct {
	Checkpoints []string `mapstructure:"checkpoints" validate:"required,min=1,dive,datetime=15:04"`
	// Location is an IANA zone name. Empty or "Local" uses the host zone.
	Location string `mapstructure:"location"`
}

// DigestConfig controls message rendering.
type DigestConfig struct {
	DefaultTitle string         `mapstructure:"default_title" validate:"required"`
	Sections     SectionsConfig `mapstructure:"sections"`
}

// SectionsConfig configures each bucket's section.
type SectionsConfig struct {
	DueToday       SectionConfig `mapstructure:"due_today"`
	Overdue        SectionConfig `mapstructure:"overdue"`
	NewlyCreated   SectionConfig `mapstructure:"newly_created"`
	MissingDueDate SectionConfig `mapstructure:"missing_due_date"`
}

// SectionConfig renders one section. EmptyText is required only for sections
// that are shown while empty.
type SectionConfig struct {
	Emoji         string `mapstructure:"emoji"`
	Label         string `mapstructure:"label"           validate:"required"`
	EmptyText     string `mapstructure:"empty_text"      validate:"required_if=ShowWhenEmpty true"`
	ShowWhenEmpty bool   `mapstructure:"show_when_empty"`
}
