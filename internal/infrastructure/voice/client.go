package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-otp-core/internal/config"
)

// Client places IVR calls through an HTTP voice gateway. The gateway
// reads the message aloud to the callee. The http.Client timeout bounds
// the whole exchange.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.VoiceGatewayURL,
		apiKey:  cfg.VoiceAPIKey,
		http:    &http.Client{Timeout: cfg.DeliveryTimeout},
	}
}

func (c *Client) Call(ctx context.Context, to, message string) error {
	if c.baseURL == "" {
		return fmt.Errorf("voice gateway not configured")
	}
	body, err := json.Marshal(map[string]string{
		"to":      to,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("marshal call request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("voice gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("voice gateway returned %d", resp.StatusCode)
	}
	return nil
}
