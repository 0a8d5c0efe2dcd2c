// Package notify delivers operator notifications at end of run.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier publishes run outcomes to the operator.
type Notifier interface {
	Success(ctx context.Context, title, message string) error
	Error(ctx context.Context, title, message string) error
}

// Ntfy publishes to an ntfy topic URL.
type Ntfy struct {
	url        string
	priority   string
	httpClient *http.Client
}

func NewNtfy(url, priority string) *Ntfy {
	return &Ntfy{
		url:      url,
		priority: priority,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *Ntfy) Success(ctx context.Context, title, message string) error {
	return n.publish(ctx, title, message, "white_check_mark")
}

func (n *Ntfy) Error(ctx context.Context, title, message string) error {
	return n.publish(ctx, title, message, "rotating_light")
}

func (n *Ntfy) publish(ctx context.Context, title, message, tags string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", n.priority)
	req.Header.Set("Tags", tags)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}

// Noop discards notifications. Used when notifications are disabled.
type Noop struct{}

func (Noop) Success(context.Context, string, string) error { return nil }
func (Noop) Error(context.Context, string, string) error   { return nil }
