// Package downstream forwards normalized payment-status events to the
// internal backend. The forward is best effort: the webhook handler logs
// the outcome and acknowledges the gateway regardless.
package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Event is the normalized payload sent to the backend's webhook-update
// endpoint.
type Event struct {
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId"`
	PayomatixID   string    `json:"payomatixId"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	ReceivedAt    time.Time `json:"receivedAt"`
	UserID        string    `json:"userId,omitempty"`
	CardID        string    `json:"cardId,omitempty"`
}

type Notifier struct {
	backendURL   string
	sharedSecret string
	httpClient   *http.Client
}

func NewNotifier(backendURL, sharedSecret string) *Notifier {
	return &Notifier{
		backendURL:   backendURL,
		sharedSecret: sharedSecret,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Enabled reports whether a backend endpoint is configured at all.
func (n *Notifier) Enabled() bool {
	return n.backendURL != "" && n.sharedSecret != ""
}

// Notify posts the event with the shared-secret header. A non-2xx answer
// is an error so the caller can log it; it is never retried.
func (n *Notifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("downstream event encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.backendURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("downstream request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Secret", n.sharedSecret)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("downstream responded %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
