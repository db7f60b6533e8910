package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type PaymentMode string

const (
	ModeTest PaymentMode = "test"
	ModeLive PaymentMode = "live"
)

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutCompleted PayoutStatus = "completed"
	PayoutFailed    PayoutStatus = "failed"
)

type RecipientType string

const (
	RecipientMerchant RecipientType = "merchant"
	RecipientAdmin    RecipientType = "admin"
)

type Merchant struct {
	ID                 string             `json:"id"`
	BusinessName       string             `json:"business_name"`
	Email              string             `json:"email"`
	AccountType        string             `json:"account_type"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	RejectionNote      string             `json:"rejection_note,omitempty"`
	Balance            decimal.Decimal    `json:"balance"`
	CreatedAt          time.Time          `json:"created_at"`
}

type Payment struct {
	ID            string          `json:"id"`
	MerchantID    string          `json:"merchant_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        PaymentStatus   `json:"status"`
	Mode          PaymentMode     `json:"mode"`
	Reference     string          `json:"reference"`
	ProviderRef   string          `json:"provider_ref,omitempty"`
	LinkCode      string          `json:"link_code,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentLog is an append-only record of one raw provider interaction.
type PaymentLog struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	Event     string    `json:"event"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

type Payout struct {
	ID         string          `json:"id"`
	MerchantID string          `json:"merchant_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     PayoutStatus    `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Notification struct {
	ID            string        `json:"id"`
	RecipientType RecipientType `json:"recipient_type"`
	MerchantID    string        `json:"merchant_id,omitempty"`
	Event         string        `json:"event"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	IsRead        bool          `json:"is_read"`
	CreatedAt     time.Time     `json:"created_at"`
}

type APIKey struct {
	ID         string    `json:"id"`
	MerchantID string    `json:"merchant_id"`
	Key        string    `json:"-"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"created_at"`
}

// OutboxMessage is one pending best-effort delivery (email and/or event
// feed) recorded alongside the business write that produced it.
type OutboxMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // email, event
	Recipient string    `json:"recipient,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Payload   []byte    `json:"payload"`
	Attempts  int       `json:"attempts"`
	Status    string    `json:"status"` // pending, sent, failed
	CreatedAt time.Time `json:"created_at"`
}

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"

	OutboxKindEmail = "email"
	OutboxKindEvent = "event"
)
