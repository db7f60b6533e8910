package repository

import (
	"context"
	"database/sql"

	"github.com/johniman211/payssd/internal/models"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, k *models.APIKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, merchant_id, key, label)
		VALUES ($1, $2, $3, $4)
	`, k.ID, k.MerchantID, k.Key, k.Label)
	return err
}

func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	var k models.APIKey
	err := r.db.QueryRowContext(ctx, `
		SELECT id, merchant_id, key, label, created_at FROM api_keys WHERE key = $1
	`, key).Scan(&k.ID, &k.MerchantID, &k.Key, &k.Label, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
