package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers domain events to an external notification collaborator.
// Delivery is best-effort from the caller's point of view; implementations
// must never mutate application state.
type Notifier interface {
	Notify(ctx context.Context, event string, payload interface{}) error
}

// Noop discards every notification. Used when no webhook is configured.
type Noop struct{}

// Notify implements Notifier.
func (Noop) Notify(context.Context, string, interface{}) error { return nil }

type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// Webhook posts JSON envelopes to a fixed URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook builds a webhook notifier with the given request timeout.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify implements Notifier.
func (w *Webhook) Notify(ctx context.Context, event string, payload interface{}) error {
	body, err := json.Marshal(envelope{Event: event, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", event, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification %s rejected with status %d", event, resp.StatusCode)
	}
	return nil
}
