// Package expo delivers push notifications through the Expo push service.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
	"github.com/sethvargo/go-retry"
)

// DefaultPushURL is the Expo push endpoint.
const DefaultPushURL = "https://exp.host/--/api/v2/push/send"

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	maxResponseBytes  = 64 << 10
)

// ErrPushRejected is returned when Expo answers with an error ticket or a
// client error status. It is not retried.
var ErrPushRejected = errors.New("push notification rejected")

// ErrPushUnavailable is returned when Expo could not be reached or kept
// failing with server errors.
var ErrPushUnavailable = errors.New("push service unavailable")

type message struct {
	To    string         `json:"to"`
	Sound string         `json:"sound"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]int `json:"data"`
}

// ticket is the single-message form of the Expo response.
type ticket struct {
	Data struct {
		Status  string `json:"status"`
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Notifier implements reminder.Notifier.
type Notifier struct {
	url        string
	client     *http.Client
	maxRetries uint64
	retryBase  time.Duration
	logger     *slog.Logger
}

var _ reminder.Notifier = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient replaces the default client, which has a 10s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

// WithRetries sets how often a failed request is retried and the base of the
// exponential backoff between attempts.
func WithRetries(retries uint64, base time.Duration) Option {
	return func(n *Notifier) {
		n.maxRetries = retries
		n.retryBase = base
	}
}

// NewNotifier creates a Notifier posting to pushURL, or DefaultPushURL when
// it is empty.
func NewNotifier(pushURL string, logger *slog.Logger, opts ...Option) *Notifier {
	if pushURL == "" {
		pushURL = DefaultPushURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	n := &Notifier{
		url:        pushURL,
		client:     &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		retryBase:  500 * time.Millisecond,
		logger:     logger.With(slog.String("component", "expo_notifier")),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends one notification. The due count travels in the data payload
// so the app can badge without parsing the body.
func (n *Notifier) Notify(ctx context.Context, note reminder.Notification) error {
	log := logger.FromContextOrDefault(ctx, n.logger)

	payload, err := json.Marshal(message{
		To:    note.To,
		Sound: "default",
		Title: note.Title,
		Body:  note.Body,
		Data:  map[string]int{"dueCount": note.DueCount},
	})
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}

	backoff := retry.WithMaxRetries(n.maxRetries, retry.NewExponential(n.retryBase))
	id, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		return n.send(ctx, payload)
	})
	if err != nil {
		log.Warn("push notification failed",
			slog.String("error", err.Error()),
			slog.Int("due_count", note.DueCount))
		return err
	}

	log.Debug("push notification sent",
		slog.String("ticket_id", id),
		slog.Int("due_count", note.DueCount))
	return nil
}

// send performs one request. Network failures and 5xx/429 answers are
// marked retryable.
func (n *Notifier) send(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", retry.RetryableError(fmt.Errorf("%w: %w", ErrPushUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", retry.RetryableError(fmt.Errorf("%w: failed to read response: %w", ErrPushUnavailable, err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", retry.RetryableError(fmt.Errorf("%w: status %d", ErrPushUnavailable, resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return "", fmt.Errorf("%w: status %d", ErrPushRejected, resp.StatusCode)
	}

	var t ticket
	if err := json.Unmarshal(body, &t); err != nil {
		return "", fmt.Errorf("%w: malformed response: %w", ErrPushRejected, err)
	}
	if len(t.Errors) > 0 {
		return "", fmt.Errorf("%w: %s: %s", ErrPushRejected, t.Errors[0].Code, t.Errors[0].Message)
	}
	if t.Data.Status == "error" {
		return "", fmt.Errorf("%w: %s", ErrPushRejected, t.Data.Message)
	}
	return t.Data.ID, nil
}
