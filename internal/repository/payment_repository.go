package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, merchant_id, amount, currency, status, mode, reference, provider_ref, link_code, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.MerchantID, p.Amount.String(), p.Currency, p.Status, p.Mode,
		p.Reference, p.ProviderRef, p.LinkCode, p.CustomerEmail)
	return err
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, merchant_id, amount, currency, status, mode, reference, provider_ref, link_code, customer_email, created_at
		FROM payments WHERE id = $1
	`, id)
	return scanPayment(row)
}

func (r *PaymentRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, merchant_id, amount, currency, status, mode, reference, provider_ref, link_code, customer_email, created_at
		FROM payments WHERE merchant_id = $1 ORDER BY created_at DESC
	`, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) SetProviderRef(ctx context.Context, id, providerRef string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET provider_ref = $1 WHERE id = $2`, providerRef, id)
	return err
}

// UpdateStatus moves a still-pending payment to a terminal status. The
// WHERE guard keeps a payment's status from being rewritten once settled.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $1 WHERE id = $2 AND status = $3`,
		status, id, models.PaymentPending)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PaymentRepository) AppendLog(ctx context.Context, l *models.PaymentLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_logs (id, payment_id, event, payload)
		VALUES ($1, $2, $3, $4)
	`, l.ID, l.PaymentID, l.Event, l.Payload)
	return err
}

func (r *PaymentRepository) ListLogs(ctx context.Context, paymentID string) ([]models.PaymentLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, payment_id, event, payload, created_at
		FROM payment_logs WHERE payment_id = $1 ORDER BY created_at
	`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.PaymentLog
	for rows.Next() {
		var l models.PaymentLog
		if err := rows.Scan(&l.ID, &l.PaymentID, &l.Event, &l.Payload, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var amount string
	err := row.Scan(&p.ID, &p.MerchantID, &amount, &p.Currency, &p.Status, &p.Mode,
		&p.Reference, &p.ProviderRef, &p.LinkCode, &p.CustomerEmail, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
