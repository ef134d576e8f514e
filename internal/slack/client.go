// Package slack reads the workspace roster and posts messages through the
// Slack Web API.
package slack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/edgard/taskdigest/internal/task"
)

// ErrMissingToken is returned when the client is built without credentials.
var ErrMissingToken = errors.New("slack token is required")

// Config holds the client's credentials and endpoint.
type Config struct {
	Token string
	// APIURL overrides the Web API base URL, mainly for tests. It must end
	// with a slash.
	APIURL string
}

// Client is the messaging gateway backed by Slack.
type Client struct {
	api *slack.Client
	log *slog.Logger
}

// NewClient creates a Slack messaging gateway.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}

	return &Client{
		api: slack.New(cfg.Token, opts...),
		log: logger.With("component", "slack_client"),
	}, nil
}

// ListMembers returns every active workspace member. Deactivated accounts
// are left out since they cannot be mentioned.
func (c *Client) ListMembers(ctx context.Context) ([]task.Member, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slack users: %w", err)
	}

	members := make([]task.Member, 0, len(users))
	for _, u := range users {
		if u.Deleted {
			continue
		}
		members = append(members, task.Member{ID: u.ID, Email: u.Profile.Email})
	}
	c.log.DebugContext(ctx, "Fetched slack members", "total", len(users), "active", len(members))
	return members, nil
}

// SendMessage posts text to a channel, given by name ("#general") or ID.
func (c *Client) SendMessage(ctx context.Context, channel, text string) error {
	channelID, ts, err := c.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to %s: %w", channel, err)
	}
	c.log.InfoContext(ctx, "Message posted", "channel", channel, "channel_id", channelID, "ts", ts)
	return nil
}
