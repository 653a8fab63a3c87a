package paystack

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

// ErrNotConfigured is returned before any network work when no secret
// key is present, so checkout can surface a configuration notice and
// suggest cash on delivery instead.
var ErrNotConfigured = errors.New("paystack: secret key not configured")

type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Outcome is the tagged result of a verified transaction. Callers
// branch on Status; there is no callback side channel.
type Outcome struct {
	Status          Status
	Reference       string
	AmountKobo      int64
	GatewayResponse string
}

type InitializeRequest struct {
	Email      string
	AmountKobo int64
	Reference  string
}

type Authorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type Client interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*Authorization, error)
	VerifyTransaction(ctx context.Context, reference string) (*Outcome, error)
}

type clientImpl struct {
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	callbackURL string
}

func NewClient(cfg *config.Paystack) Client {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     cfg.BaseURL,
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
	}
}

func (c *clientImpl) InitializeTransaction(ctx context.Context, initReq InitializeRequest) (*Authorization, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"email":     initReq.Email,
		"amount":    initReq.AmountKobo,
		"reference": initReq.Reference,
		"currency":  "NGN",
	}
	if c.callbackURL != "" {
		payload["callback_url"] = c.callbackURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paystack error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Status bool `json:"status"`
		Data   struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}

	return &Authorization{
		AuthorizationURL: result.Data.AuthorizationURL,
		AccessCode:       result.Data.AccessCode,
		Reference:        result.Data.Reference,
	}, nil
}

func (c *clientImpl) VerifyTransaction(ctx context.Context, reference string) (*Outcome, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paystack error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Status bool `json:"status"`
		Data   struct {
			Status          string `json:"status"`
			Reference       string `json:"reference"`
			Amount          int64  `json:"amount"`
			GatewayResponse string `json:"gateway_response"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}

	return &Outcome{
		Status:          mapStatus(result.Data.Status),
		Reference:       result.Data.Reference,
		AmountKobo:      result.Data.Amount,
		GatewayResponse: result.Data.GatewayResponse,
	}, nil
}

// Paystack reports "abandoned" when the shopper closes the hosted
// checkout without paying. That is a cancel, not a decline.
func mapStatus(s string) Status {
	switch s {
	case "success":
		return StatusSuccess
	case "abandoned":
		return StatusCancelled
	default:
		return StatusFailed
	}
}
