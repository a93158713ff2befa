package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Options tune the client's paging and retry behavior.
type Options struct {
	// PageSize caps a single list page. The Gmail API rejects values over 500.
	PageSize int64

	// PageDelay is the pause between list pages, to stay under rate limits.
	PageDelay time.Duration

	// RetryAttempts and RetryDelay govern per-message fetch retries.
	RetryAttempts uint
	RetryDelay    time.Duration
}

// Client wraps the Gmail Users service for a single delegated mailbox.
type Client struct {
	svc  *gmail.UsersService
	user string
	opts Options
}

// NewClient creates a Gmail client for one mailbox. The HTTP client must
// already carry delegated credentials for that mailbox.
func NewClient(ctx context.Context, httpClient *http.Client, user string, opts Options) (*Client, error) {
	if user == "" {
		return nil, fmt.Errorf("user email is required")
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service for %s: %w", user, err)
	}

	if opts.PageSize <= 0 || opts.PageSize > 500 {
		opts.PageSize = 500
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 1
	}

	return &Client{
		svc:  svc.Users,
		user: user,
		opts: opts,
	}, nil
}

// User returns the mailbox this client is delegated to.
func (c *Client) User() string {
	return c.user
}

// ListMessageIDs lists message ids matching the query, paginating until max
// ids are collected or the mailbox is exhausted. The delegated credentials
// make "me" resolve to the impersonated mailbox.
//
// On a mid-pagination failure the ids collected so far are returned along
// with the error, so a partial listing can still be loaded.
func (c *Client) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := max - int64(len(ids))
		if remaining <= 0 {
			break
		}

		pageSize := remaining
		if pageSize > c.opts.PageSize {
			pageSize = c.opts.PageSize
		}

		req := c.svc.Messages.List("me").Q(query).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return ids, fmt.Errorf("failed to list messages for %s: %w", c.user, err)
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}

		if err := sleepContext(ctx, c.opts.PageDelay); err != nil {
			return ids, err
		}
	}

	if int64(len(ids)) > max {
		ids = ids[:max]
	}
	return ids, nil
}

// Body is the extracted content of a single message.
type Body struct {
	// ID is the Gmail message id.
	ID string

	// Text is the decoded body, preferring text/plain over text/html.
	// Empty when the message has no decodable body part.
	Text string
}

// FetchBody retrieves one message and extracts its body, retrying transient
// failures. A message without a decodable body yields an empty Body.Text
// rather than an error.
func (c *Client) FetchBody(ctx context.Context, messageID string) (Body, error) {
	if messageID == "" {
		return Body{}, fmt.Errorf("messageID is required")
	}

	var msg *gmail.Message
	err := retry.Do(
		func() error {
			m, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
			if err != nil {
				return err
			}
			msg = m
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.opts.RetryAttempts),
		retry.Delay(c.opts.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return Body{}, fmt.Errorf("failed to get message %s for %s: %w", messageID, c.user, err)
	}

	text, err := extractBody(msg.Payload)
	if err != nil {
		// Undecodable payloads are recorded as empty bodies, not dropped.
		text = ""
	}

	return Body{ID: messageID, Text: text}, nil
}

// sleepContext sleeps for d unless the context is canceled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
