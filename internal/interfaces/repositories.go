package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
)

// MerchantRepository defines the contract for merchant data access.
type MerchantRepository interface {
	Create(ctx context.Context, m *models.Merchant) error
	GetByID(ctx context.Context, id string) (*models.Merchant, error)
	List(ctx context.Context) ([]models.Merchant, error)
	UpdateVerification(ctx context.Context, id string, status models.VerificationStatus, note string) error
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]models.Payment, error)
	SetProviderRef(ctx context.Context, id, providerRef string) error
	// UpdateStatus moves a payment to a terminal status only while it is
	// still pending; it reports whether a row was changed.
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (bool, error)
	AppendLog(ctx context.Context, l *models.PaymentLog) error
	ListLogs(ctx context.Context, paymentID string) ([]models.PaymentLog, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, p *models.Payout) error
	GetByID(ctx context.Context, id string) (*models.Payout, error)
	ListPending(ctx context.Context) ([]models.Payout, error)
	UpdateStatus(ctx context.Context, id string, status models.PayoutStatus) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByMerchant(ctx context.Context, merchantID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, merchantID string) error
	Delete(ctx context.Context, id, merchantID string) error
}

type APIKeyRepository interface {
	Create(ctx context.Context, k *models.APIKey) error
	GetByKey(ctx context.Context, key string) (*models.APIKey, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, m *models.OutboxMessage) error
	FindPending(ctx context.Context, limit int) ([]models.OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, attempts int, terminal bool) error
}
