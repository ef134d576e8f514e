// Package digest renders classified tasks into the message posted to the
// team channel.
package digest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/taskdigest/internal/classify"
	"github.com/edgard/taskdigest/internal/task"
)

const (
	// DefaultTitle labels tasks whose title is empty.
	DefaultTitle = "Task"
	// DefaultConcurrency bounds parallel lookups per fan-out level.
	DefaultConcurrency = 8

	mentionSeparator = " , "
)

// Section configures how one bucket is rendered.
type Section struct {
	Emoji     string
	Label     string
	EmptyText string
	// ShowWhenEmpty renders the header and EmptyText for an empty bucket.
	// When false an empty bucket is left out of the digest.
	ShowWhenEmpty bool
}

func (s Section) header() string {
	return s.Emoji + s.Label
}

// Sections holds the per-bucket rendering, in digest order.
type Sections struct {
	DueToday       Section
	Overdue        Section
	NewlyCreated   Section
	MissingDueDate Section
}

// DefaultSections shows the due-today and overdue sections even when empty
// and suppresses the other two.
func DefaultSections() Sections {
	return Sections{
		DueToday: Section{
			Emoji:         "📅",
			Label:         "Tasks due today",
			EmptyText:     "None",
			ShowWhenEmpty: true,
		},
		Overdue: Section{
			Emoji:         "🚨",
			Label:         "Overdue tasks",
			EmptyText:     "None",
			ShowWhenEmpty: true,
		},
		NewlyCreated: Section{
			Emoji:     "🆕",
			Label:     "New tasks since the last digest",
			EmptyText: "None",
		},
		MissingDueDate: Section{
			Emoji:     "❓",
			Label:     "Tasks without a due date",
			EmptyText: "None",
		},
	}
}

// Options tunes the composer.
type Options struct {
	DefaultTitle string
	Concurrency  int
	Sections     Sections
}

// Composer turns tasks into digest lines, resolving assignees and parent
// tasks through a Lookup.
type Composer struct {
	lookup       Lookup
	logger       *slog.Logger
	defaultTitle string
	concurrency  int
	sections     Sections
}

// NewComposer creates a Composer. Zero-valued options fall back to defaults.
func NewComposer(lookup Lookup, opts Options, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = DefaultTitle
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Sections == (Sections{}) {
		opts.Sections = DefaultSections()
	}
	return &Composer{
		lookup:       lookup,
		logger:       logger.With("component", "digest_composer"),
		defaultTitle: opts.DefaultTitle,
		concurrency:  opts.Concurrency,
		sections:     opts.Sections,
	}
}

// ComposeLine renders a single task.
func (c *Composer) ComposeLine(ctx context.Context, t task.Task, roster *task.Roster) (string, error) {
	return c.composeLine(ctx, newResolver(c.lookup), t, roster)
}

// ComposeDigest renders all four buckets and assembles the message. Buckets
// are composed concurrently and share one lookup cache; the result does not
// depend on lookup completion order.
func (c *Composer) ComposeDigest(ctx context.Context, buckets classify.Buckets, roster *task.Roster) (string, error) {
	r := newResolver(c.lookup)

	bucketTasks := [][]task.Task{buckets.DueToday, buckets.Overdue, buckets.NewlyCreated, buckets.MissingDueDate}
	sections := []Section{c.sections.DueToday, c.sections.Overdue, c.sections.NewlyCreated, c.sections.MissingDueDate}
	lines := make([][]string, len(bucketTasks))

	g, gCtx := errgroup.WithContext(ctx)
	for i, tasks := range bucketTasks {
		g.Go(func() error {
			out, err := c.composeLines(gCtx, r, tasks, roster)
			if err != nil {
				return fmt.Errorf("failed to compose %q section: %w", sections[i].Label, err)
			}
			lines[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return Assemble(sections, lines), nil
}

// Assemble joins rendered sections with a blank line between them. A section
// with no lines renders its EmptyText or is dropped, per ShowWhenEmpty.
func Assemble(sections []Section, lines [][]string) string {
	parts := make([]string, 0, len(sections))
	for i, s := range sections {
		var body []string
		if i < len(lines) {
			body = lines[i]
		}
		switch {
		case len(body) > 0:
			parts = append(parts, s.header()+"\n"+strings.Join(body, "\n"))
		case s.ShowWhenEmpty:
			parts = append(parts, s.header()+"\n"+s.EmptyText)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (c *Composer) composeLines(ctx context.Context, r *resolver, tasks []task.Task, roster *task.Roster) ([]string, error) {
	out := make([]string, len(tasks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			line, err := c.composeLine(gCtx, r, t, roster)
			if err != nil {
				return err
			}
			out[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Composer) composeLine(ctx context.Context, r *resolver, t task.Task, roster *task.Roster) (string, error) {
	mentions, err := c.mentions(ctx, r, t, roster)
	if err != nil {
		return "", err
	}

	parts := []string{link(t.URL, c.title(t))}

	if t.ParentID != "" {
		parent, err := r.page(ctx, t.ParentID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve parent %s of task %s: %w", t.ParentID, t.ID, err)
		}
		parts = append(parts, "("+link(parent.URL, c.title(parent))+")")
	}

	if len(mentions) > 0 {
		parts = append(parts, strings.Join(mentions, mentionSeparator))
	}
	return strings.Join(parts, " "), nil
}

// mentions resolves assignees in parallel and returns member mentions in
// assignee order. Assignees with no roster match are dropped.
func (c *Composer) mentions(ctx context.Context, r *resolver, t task.Task, roster *task.Roster) ([]string, error) {
	if len(t.Assignees) == 0 {
		return nil, nil
	}

	emails := make([]string, len(t.Assignees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range t.Assignees {
		if id == "" {
			continue
		}
		g.Go(func() error {
			p, err := r.profile(gCtx, id)
			if err != nil {
				return fmt.Errorf("failed to resolve assignee %s of task %s: %w", id, t.ID, err)
			}
			emails[i] = p.Email
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mentions := make([]string, 0, len(emails))
	for i, email := range emails {
		memberID, ok := roster.Lookup(email)
		if !ok {
			c.logger.DebugContext(ctx, "Assignee has no messaging member, skipping mention",
				"task_id", t.ID, "assignee_id", t.Assignees[i], "email", email)
			continue
		}
		mentions = append(mentions, "<@"+memberID+">")
	}
	return mentions, nil
}

func (c *Composer) title(t task.Task) string {
	if strings.TrimSpace(t.Title) == "" {
		return c.defaultTitle
	}
	return t.Title
}

var linkEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func link(url, text string) string {
	return "<" + url + "|" + linkEscaper.Replace(text) + ">"
}
