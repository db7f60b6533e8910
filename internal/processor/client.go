// Package processor wraps the external card/mobile-money processor's
// charge API. It is deliberately thin: one POST, no retries, raw JSON
// handed back to the caller.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnreachable marks a transport-level failure: the processor never
// produced an HTTP response.
var ErrUnreachable = errors.New("processor unreachable")

type ChargeRequest struct {
	TxRef         string  `json:"tx_ref"`
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	RedirectURL   string  `json:"redirect_url"`
	CustomerEmail string  `json:"-"`
	LinkCode      string  `json:"-"`
	Customer      payer   `json:"customer"`
	Meta          payMeta `json:"meta"`
}

type payer struct {
	Email string `json:"email"`
}

type payMeta struct {
	LinkCode string `json:"link_code,omitempty"`
}

// ChargeResponse carries the provider's raw body alongside the parsed
// fields the flow needs. OK mirrors the HTTP status (<400).
type ChargeResponse struct {
	StatusCode int
	OK         bool
	Raw        json.RawMessage

	Status string
	Link   string
	FlwRef string
}

type chargeBody struct {
	Status string `json:"status"`
	Data   struct {
		Link   string `json:"link"`
		FlwRef string `json:"flw_ref"`
	} `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Charge POSTs a payment request and returns the raw response. A non-2xx
// status is not an error here; the flow decides what to do with it.
func (c *Client) Charge(ctx context.Context, secretKey string, req ChargeRequest) (*ChargeResponse, error) {
	req.Customer = payer{Email: req.CustomerEmail}
	req.Meta = payMeta{LinkCode: req.LinkCode}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	out := &ChargeResponse{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode < 400,
		Raw:        raw,
	}

	var parsed chargeBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		out.Status = parsed.Status
		out.Link = parsed.Data.Link
		out.FlwRef = parsed.Data.FlwRef
	}

	return out, nil
}
