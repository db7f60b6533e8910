package repository

import (
	"context"
	"database/sql"

	"github.com/johniman211/payssd/internal/models"
)

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, m *models.OutboxMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_outbox (id, kind, recipient, subject, payload, attempts, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Kind, m.Recipient, m.Subject, m.Payload, m.Attempts, m.Status)
	return err
}

func (r *OutboxRepository) FindPending(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, recipient, subject, payload, attempts, status, created_at
		FROM notification_outbox WHERE status = $1 ORDER BY created_at LIMIT $2
	`, models.OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		err := rows.Scan(&m.ID, &m.Kind, &m.Recipient, &m.Subject,
			&m.Payload, &m.Attempts, &m.Status, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox SET status = $1 WHERE id = $2`, models.OutboxSent, id)
	return err
}

// MarkFailed records a delivery attempt; once terminal, the drainer stops
// picking the row up.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, attempts int, terminal bool) error {
	status := models.OutboxPending
	if terminal {
		status = models.OutboxFailed
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox SET attempts = $1, status = $2 WHERE id = $3`,
		attempts, status, id)
	return err
}
