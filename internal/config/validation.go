package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/taskdigest/internal/classify"
)

// Validate checks struct tags and the values tags cannot express: the
// schedule zone must load and checkpoints must form a schedule.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := classify.ParseSchedule(c.Schedule.Checkpoints); err != nil {
		return err
	}
	return nil
}

// Location resolves the schedule's time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Schedule.Location {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Schedule.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule location %q: %w", c.Schedule.Location, err)
	}
	return loc, nil
}
