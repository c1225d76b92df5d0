package payment

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

// AuthorizeRequest is the wire payload sent to the payment gateway.
type AuthorizeRequest struct {
	UserID   int64             `json:"userId"`
	Amount   string            `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AuthorizeResponse is the gateway's verdict on a charge.
type AuthorizeResponse struct {
	Reference string `json:"reference"`
	Approved  bool   `json:"approved"`
	Message   string `json:"message,omitempty"`
}

// Client is a thin JSON client for the payment gateway API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// AuthorizeOption configures a single authorization request.
type AuthorizeOption func(*authorizeOptions)

type authorizeOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) AuthorizeOption {
	return func(opts *authorizeOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// NewClient instantiates the gateway client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("payment gateway base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// Authorize posts the charge to the gateway and decodes its verdict.
func (c *Client) Authorize(ctx context.Context, payload AuthorizeRequest, optFns ...AuthorizeOption) (*AuthorizeResponse, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("payment client not configured")
	}
	var opts authorizeOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode authorize payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/authorizations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var verdict AuthorizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
			return nil, fmt.Errorf("decode gateway response: %w", err)
		}
		return &verdict, nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		verdict := AuthorizeResponse{Approved: false}
		_ = json.NewDecoder(resp.Body).Decode(&verdict)
		return &verdict, nil
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment gateway error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
}
