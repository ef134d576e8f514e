// Package notion reads task and assignee pages from a Notion database.
package notion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/edgard/taskdigest/internal/task"
)

// ErrMissingToken is returned when the client is built without credentials.
var ErrMissingToken = errors.New("notion token is required")

// Config holds everything the client needs; nothing is read from the
// environment here.
type Config struct {
	Token      string
	Properties PropertyNames
	Markers    task.StatusMarkers
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is the task repository backed by the Notion API.
type Client struct {
	api    *notionapi.Client
	mapper mapper
	log    *slog.Logger
}

// NewClient creates a Notion-backed task repository.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var opts []notionapi.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(cfg.HTTPClient))
	}

	log := logger.With("component", "notion_client")
	log.Debug("Notion client initialized")
	return &Client{
		api:    notionapi.NewClient(notionapi.Token(cfg.Token), opts...),
		mapper: mapper{props: cfg.Properties, markers: cfg.Markers},
		log:    log,
	}, nil
}

// ListTasks returns the tasks in the first result page of the database.
// Further pages are not fetched.
func (c *Client) ListTasks(ctx context.Context, databaseID string) ([]task.Task, error) {
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
	}
	if resp.HasMore {
		c.log.WarnContext(ctx, "Database has more results than one page, only the first page is used",
			"database_id", databaseID, "fetched", len(resp.Results))
	}

	tasks := make([]task.Task, 0, len(resp.Results))
	for i := range resp.Results {
		tasks = append(tasks, c.mapper.toTask(&resp.Results[i]))
	}
	c.log.DebugContext(ctx, "Fetched tasks", "database_id", databaseID, "count", len(tasks))
	return tasks, nil
}

// GetTask fetches a single page as a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (task.Task, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(taskID))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to get page %s: %w", taskID, err)
	}
	return c.mapper.toTask(page), nil
}

// GetAssigneeProfile fetches an assignee page and reads its email property.
func (c *Client) GetAssigneeProfile(ctx context.Context, assigneeID string) (task.AssigneeProfile, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(assigneeID))
	if err != nil {
		return task.AssigneeProfile{}, fmt.Errorf("failed to get assignee page %s: %w", assigneeID, err)
	}
	return c.mapper.toProfile(page), nil
}
