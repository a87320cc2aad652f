// Package payomatix is the client side of the Payomatix transaction API:
// it sends transaction-creation requests and interprets the gateway's
// loosely-typed responses and webhook notifications.
package payomatix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		apiURL:    apiURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// CreateTransaction posts a transaction-creation request and classifies
// whatever comes back. A transport failure or an undecodable body returns
// an error; every decodable response, whatever its HTTP status, returns
// an Outcome. There are no retries.
func (c *Client) CreateTransaction(ctx context.Context, req IntentRequest) (Outcome, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("payomatix request encode: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("payomatix request build: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	// Payomatix expects the raw secret key, no Bearer prefix.
	httpReq.Header.Set("Authorization", c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payomatix transaction request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("payomatix response read: %w", err)
	}

	return Classify(resp.StatusCode, raw)
}
