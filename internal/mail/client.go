package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sokaytech/storefront/internal/config"
)

var ErrNotConfigured = errors.New("mail: api key not configured")

// Client sends transactional email through the Resend HTTP API. Every
// caller treats failures as best-effort: an email that does not go out
// never blocks an order.
type Client interface {
	Send(ctx context.Context, to, subject, html string) error
}

type clientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

func NewClient(cfg *config.Resend) Client {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
	}
}

func (c *clientImpl) Send(ctx context.Context, to, subject, html string) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	payload := map[string]interface{}{
		"from":    c.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
