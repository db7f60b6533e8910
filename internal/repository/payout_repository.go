package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
)

type PayoutRepository struct {
	db *sql.DB
}

func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(ctx context.Context, p *models.Payout) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payouts (id, merchant_id, amount, status)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.MerchantID, p.Amount.String(), p.Status)
	return err
}

func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*models.Payout, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, merchant_id, amount, status, created_at FROM payouts WHERE id = $1
	`, id)
	return scanPayout(row)
}

func (r *PayoutRepository) ListPending(ctx context.Context) ([]models.Payout, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, merchant_id, amount, status, created_at
		FROM payouts WHERE status = $1 ORDER BY created_at
	`, models.PayoutPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}

// UpdateStatus settles a pending payout; settled payouts are never
// rewritten.
func (r *PayoutRepository) UpdateStatus(ctx context.Context, id string, status models.PayoutStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payouts SET status = $1 WHERE id = $2 AND status = $3`,
		status, id, models.PayoutPending)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func scanPayout(row rowScanner) (*models.Payout, error) {
	var p models.Payout
	var amount string
	err := row.Scan(&p.ID, &p.MerchantID, &amount, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
