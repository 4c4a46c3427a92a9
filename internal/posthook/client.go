package posthook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CallbackPath is the route the provider POSTs back to at the scheduled time.
const CallbackPath = "/send-reminder"

// Payload is the opaque bundle registered with a hook and replayed verbatim in
// the callback. It must carry everything needed to render and send without a
// further lookup; the owning item may have changed state by delivery time.
type Payload struct {
	TemplateID string         `json:"templateId"`
	Email      string         `json:"email"`
	ItemID     uint64         `json:"itemId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Callback is the body of an inbound provider call.
type Callback struct {
	ID     string  `json:"id"`
	Path   string  `json:"path"`
	PostAt string  `json:"postAt"`
	Data   Payload `json:"data"`
}

// Client registers future callbacks with the posthook API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type registerReq struct {
	Path   string  `json:"path"`
	PostAt string  `json:"postAt"`
	Data   Payload `json:"data"`
}

// Register schedules one callback at postAt and returns the provider's hook
// id, the durable correlation key for the eventual delivery.
func (c *Client) Register(ctx context.Context, postAt time.Time, p Payload) (string, error) {
	body, err := json.Marshal(registerReq{
		Path:   CallbackPath,
		PostAt: postAt.UTC().Format(time.RFC3339),
		Data:   p,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/hooks", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("posthook: register hook: status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("posthook: decode register response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("posthook: register response has no hook id")
	}
	return out.Data.ID, nil
}
