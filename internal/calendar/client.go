package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	primaryCalendarID = "primary"
	listPageSize      = 100
	maxRetries        = 3
)

// API is the calendar provider surface the reconciler depends on. The
// production implementation talks to Google Calendar; tests substitute a
// fake.
type API interface {
	CreateEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error)
	ListEvents(ctx context.Context, query string) ([]*gcal.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Client is the Google Calendar implementation of API, scoped to the
// authenticated account's primary calendar. Transient provider errors are
// retried with exponential backoff beneath the reconciler's pacing.
type Client struct {
	svc *gcal.Service
}

// NewClient builds a Client on top of the token manager's token source.
func NewClient(ctx context.Context, tokens *TokenManager) (*Client, error) {
	svc, err := gcal.NewService(ctx, option.WithTokenSource(tokens.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateEvent inserts an event into the primary calendar.
func (c *Client) CreateEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	var created *gcal.Event
	err := retryTransient(ctx, func() error {
		var err error
		created, err = c.svc.Events.Insert(primaryCalendarID, ev).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return created, nil
}

// ListEvents returns events matching a free-text query.
func (c *Client) ListEvents(ctx context.Context, query string) ([]*gcal.Event, error) {
	var items []*gcal.Event
	err := retryTransient(ctx, func() error {
		resp, err := c.svc.Events.List(primaryCalendarID).
			Q(query).
			MaxResults(listPageSize).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return items, nil
}

// DeleteEvent removes an event by identifier.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := retryTransient(ctx, func() error {
		return c.svc.Events.Delete(primaryCalendarID, eventID).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", eventID, err)
	}
	return nil
}

// retryTransient retries rate-limit and server errors a bounded number of
// times; anything else fails immediately.
func retryTransient(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
