package repository

import (
	"context"
	"database/sql"

	"github.com/johniman211/payssd/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_type, merchant_id, event, title, message, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.RecipientType, n.MerchantID, n.Event, n.Title, n.Message, n.IsRead)
	return err
}

func (r *NotificationRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recipient_type, merchant_id, event, title, message, is_read, created_at
		FROM notifications WHERE merchant_id = $1 AND recipient_type = $2
		ORDER BY created_at DESC
	`, merchantID, models.RecipientMerchant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.RecipientType, &n.MerchantID, &n.Event,
			&n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, merchantID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND merchant_id = $2`, id, merchantID)
	return err
}

func (r *NotificationRepository) Delete(ctx context.Context, id, merchantID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND merchant_id = $2`, id, merchantID)
	return err
}
