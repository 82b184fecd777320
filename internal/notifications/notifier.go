// Package notifications delivers library events to webhooks and brokers.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Event names carried in Message.Event.
const (
	EventNewChapters      = "library.new_chapters"
	EventMetadataResolved = "library.metadata_resolved"
)

const (
	eventHeader       = "X-BMH-Event"
	errorSnippetBytes = 512
)

type Message struct {
	Event   string         `json:"event,omitempty"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Context map[string]any `json:"context,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, message Message) error
}

// NotifierFunc lets a plain function act as a Notifier.
type NotifierFunc func(ctx context.Context, message Message) error

func (f NotifierFunc) Notify(ctx context.Context, message Message) error {
	return f(ctx, message)
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Message) error {
	return nil
}

type WebhookOption func(*WebhookNotifier)

func WithWebhookClient(client *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		if client != nil {
			w.client = client
		}
	}
}

// WithWebhookHeader adds a header to every delivery, e.g. an auth token.
func WithWebhookHeader(key string, value string) WebhookOption {
	return func(w *WebhookNotifier) {
		w.headers.Set(key, value)
	}
}

// WebhookNotifier POSTs each message as JSON. The event name is repeated
// in a header so receivers can route without decoding the body.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
	headers  http.Header
}

func NewWebhookNotifier(endpoint string, opts ...WebhookOption) (*WebhookNotifier, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("webhook url is required")
	}

	notifier := &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		headers:  http.Header{"Content-Type": []string{"application/json"}},
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier, nil
}

func (w *WebhookNotifier) Notify(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode %s webhook: %w", message.Event, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header = w.headers.Clone()
	if message.Event != "" {
		req.Header.Set(eventHeader, message.Event)
	}

	res, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetBytes))
	if text := strings.TrimSpace(string(snippet)); text != "" {
		return fmt.Errorf("webhook rejected delivery with %d: %s", res.StatusCode, text)
	}
	return fmt.Errorf("webhook rejected delivery with %d", res.StatusCode)
}

// MultiNotifier fans a message out to every configured notifier.
type MultiNotifier struct {
	targets []Notifier
}

func NewMultiNotifier(targets ...Notifier) *MultiNotifier {
	multi := &MultiNotifier{}
	for _, target := range targets {
		if target != nil {
			multi.targets = append(multi.targets, target)
		}
	}
	return multi
}

// Notify delivers to every target even when one fails. Failures are
// tagged with the target's position and joined.
func (m *MultiNotifier) Notify(ctx context.Context, message Message) error {
	var errs []error
	for i, target := range m.targets {
		if err := target.Notify(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d (%T): %w", i, target, err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiNotifier) Len() int {
	return len(m.targets)
}
