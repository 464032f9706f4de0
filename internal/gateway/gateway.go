// Package gateway wraps the external payment processor. The state machine
// treats charge creation as fire-and-forget: the intent id comes back
// synchronously, actual payment confirmation arrives later through a separate
// confirm call or webhook.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Intent is a gateway charge intent awaiting client-side completion.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Gateway creates charge intents with the external payment processor.
type Gateway interface {
	CreateChargeIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*Intent, error)
}

// ErrDisabled is returned when no gateway is configured.
var ErrDisabled = errors.New("gateway: not configured")

// Client talks to a REST payment gateway.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type chargeIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *Client) CreateChargeIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*Intent, error) {
	body, err := json.Marshal(chargeIntentRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway.CreateChargeIntent: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charge_intents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway.CreateChargeIntent: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway.CreateChargeIntent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway.CreateChargeIntent: gateway returned %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("gateway.CreateChargeIntent: decode: %w", err)
	}

	return &intent, nil
}

// Disabled is the Gateway used when no processor is configured; every charge
// attempt fails with ErrDisabled.
type Disabled struct{}

func (Disabled) CreateChargeIntent(context.Context, int64, string, map[string]string) (*Intent, error) {
	return nil, ErrDisabled
}
