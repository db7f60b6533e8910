package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
)

type MerchantRepository struct {
	db *sql.DB
}

func NewMerchantRepository(db *sql.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(ctx context.Context, m *models.Merchant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO merchants (id, business_name, email, account_type, verification_status, rejection_note, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.BusinessName, m.Email, m.AccountType, m.VerificationStatus, m.RejectionNote, m.Balance.String())
	return err
}

func (r *MerchantRepository) GetByID(ctx context.Context, id string) (*models.Merchant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, business_name, email, account_type, verification_status, rejection_note, balance, created_at
		FROM merchants WHERE id = $1
	`, id)
	return scanMerchant(row)
}

func (r *MerchantRepository) List(ctx context.Context) ([]models.Merchant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, business_name, email, account_type, verification_status, rejection_note, balance, created_at
		FROM merchants ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var merchants []models.Merchant
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, *m)
	}
	return merchants, rows.Err()
}

func (r *MerchantRepository) UpdateVerification(ctx context.Context, id string, status models.VerificationStatus, note string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE merchants SET verification_status = $1, rejection_note = $2 WHERE id = $3`,
		status, note, id)
	return err
}

func (r *MerchantRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE merchants SET balance = balance + $1 WHERE id = $2`, delta.String(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMerchant(row rowScanner) (*models.Merchant, error) {
	var m models.Merchant
	var balance string
	err := row.Scan(&m.ID, &m.BusinessName, &m.Email, &m.AccountType,
		&m.VerificationStatus, &m.RejectionNote, &balance, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
