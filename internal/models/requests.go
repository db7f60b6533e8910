package models

import "encoding/json"

// InitiatePaymentRequest is the hosted-checkout charge request. merchant_id
// and amount are the only required fields; Amount is a pointer so an
// absent field is distinguishable from zero.
type InitiatePaymentRequest struct {
	MerchantID    string   `json:"merchant_id"`
	Amount        *float64 `json:"amount"`
	Currency      string   `json:"currency"`
	LinkCode      string   `json:"link_code"`
	CustomerEmail string   `json:"customer_email"`
	RedirectURL   string   `json:"redirect_url"`
}

// InitiatePaymentResponse is always returned with HTTP 200; callers must
// inspect the ok field, not the status code.
type InitiatePaymentResponse struct {
	OK            bool            `json:"ok"`
	PaymentID     string          `json:"payment_id,omitempty"`
	TestSimulated bool            `json:"test_simulated,omitempty"`
	Flutterwave   json.RawMessage `json:"flutterwave,omitempty"`
	Error         string          `json:"error,omitempty"`
}

type NotifyRequest struct {
	Event      string         `json:"event" binding:"required"`
	MerchantID string         `json:"merchant_id"`
	Payload    map[string]any `json:"payload"`
	AdminOnly  bool           `json:"admin_only"`
}

type PayoutRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

type KYCDecisionRequest struct {
	Decision string `json:"decision" binding:"required"` // approved or rejected
	Note     string `json:"note"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Flow error codes carried in response bodies.
const (
	ErrMissingParameters   = "missing_parameters"
	ErrMerchantNotFound    = "merchant_not_found"
	ErrPaymentsNotAllowed  = "payments_not_allowed"
	ErrProviderUnreachable = "provider_unreachable"
	ErrInvalidJSON         = "invalid_json"
	ErrInvalidRequest      = "invalid_request"
	ErrServerMisconfigured = "server_misconfigured"
	ErrUnknownEvent        = "unknown_event"
	ErrInsufficientBalance = "insufficient_balance"
	ErrInternal            = "internal_error"
)
