package repository

import "database/sql"

// Migrate creates the schema at boot, matching how the service is
// deployed against a fresh database.
func Migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS merchants (
			id VARCHAR(255) PRIMARY KEY,
			business_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			account_type VARCHAR(50) NOT NULL DEFAULT 'business',
			verification_status VARCHAR(50) NOT NULL DEFAULT 'pending',
			rejection_note TEXT NOT NULL DEFAULT '',
			balance DECIMAL(15,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id VARCHAR(255) PRIMARY KEY,
			merchant_id VARCHAR(255) NOT NULL,
			amount DECIMAL(15,2) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(50) NOT NULL,
			mode VARCHAR(10) NOT NULL,
			reference VARCHAR(255) NOT NULL,
			provider_ref VARCHAR(255) NOT NULL DEFAULT '',
			link_code VARCHAR(255) NOT NULL DEFAULT '',
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_merchant_id ON payments(merchant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_reference ON payments(reference)`,
		`CREATE TABLE IF NOT EXISTS payment_logs (
			id VARCHAR(255) PRIMARY KEY,
			payment_id VARCHAR(255) NOT NULL,
			event VARCHAR(100) NOT NULL,
			payload JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_logs_payment_id ON payment_logs(payment_id)`,
		`CREATE TABLE IF NOT EXISTS payouts (
			id VARCHAR(255) PRIMARY KEY,
			merchant_id VARCHAR(255) NOT NULL,
			amount DECIMAL(15,2) NOT NULL,
			status VARCHAR(50) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payouts_merchant_id ON payouts(merchant_id)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(255) PRIMARY KEY,
			recipient_type VARCHAR(20) NOT NULL,
			merchant_id VARCHAR(255) NOT NULL DEFAULT '',
			event VARCHAR(100) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_merchant_id ON notifications(merchant_id)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id VARCHAR(255) PRIMARY KEY,
			merchant_id VARCHAR(255) NOT NULL,
			key VARCHAR(255) NOT NULL UNIQUE,
			label VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS notification_outbox (
			id VARCHAR(255) PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			recipient VARCHAR(255) NOT NULL DEFAULT '',
			subject VARCHAR(255) NOT NULL DEFAULT '',
			payload BYTEA,
			attempts INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notification_outbox_status ON notification_outbox(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
