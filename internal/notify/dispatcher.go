package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/telemetry"
)

// Dispatcher renders a business event into notification rows and queues
// the matching best-effort deliveries (email, event feed) on the outbox.
// Notification rows are written synchronously; delivery is not.
type Dispatcher struct {
	notifications interfaces.NotificationRepository
	merchants     interfaces.MerchantRepository
	outbox        interfaces.OutboxRepository
	adminEmails   []string
}

func NewDispatcher(
	notifications interfaces.NotificationRepository,
	merchants interfaces.MerchantRepository,
	outbox interfaces.OutboxRepository,
	adminEmails []string,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		merchants:     merchants,
		outbox:        outbox,
		adminEmails:   adminEmails,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event, merchantID string, payload map[string]any, adminOnly bool) error {
	tmpl, ok := templates[event]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}

	title := render(tmpl.Title, payload)
	message := render(tmpl.Message, payload)

	if !adminOnly && merchantID != "" {
		n := &models.Notification{
			ID:            uuid.New().String(),
			RecipientType: models.RecipientMerchant,
			MerchantID:    merchantID,
			Event:         event,
			Title:         title,
			Message:       message,
			CreatedAt:     time.Now().UTC(),
		}
		if err := d.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("create merchant notification: %w", err)
		}

		if merchant, err := d.merchants.GetByID(ctx, merchantID); err == nil && merchant.Email != "" {
			d.enqueueEmail(ctx, merchant.Email, title, message)
		} else if err != nil {
			telemetry.Logger.Warn("resolve merchant email",
				zap.String("merchant_id", merchantID), zap.Error(err))
		}
	}

	admin := &models.Notification{
		ID:            uuid.New().String(),
		RecipientType: models.RecipientAdmin,
		Event:         event,
		Title:         title,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
	}
	if err := d.notifications.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin notification: %w", err)
	}

	for _, email := range d.adminEmails {
		d.enqueueEmail(ctx, email, title, message)
	}

	d.enqueueEvent(ctx, event, merchantID, payload)

	telemetry.NotificationsDispatched.WithLabelValues(event).Inc()
	return nil
}

func (d *Dispatcher) enqueueEmail(ctx context.Context, to, subject, body string) {
	err := d.outbox.Enqueue(ctx, &models.OutboxMessage{
		ID:        uuid.New().String(),
		Kind:      models.OutboxKindEmail,
		Recipient: to,
		Subject:   subject,
		Payload:   []byte(body),
		Status:    models.OutboxPending,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		telemetry.Logger.Warn("enqueue email", zap.String("to", to), zap.Error(err))
	}
}

func (d *Dispatcher) enqueueEvent(ctx context.Context, event, merchantID string, payload map[string]any) {
	body, err := json.Marshal(map[string]any{
		"event":       event,
		"merchant_id": merchantID,
		"payload":     payload,
		"emitted_at":  time.Now().UTC(),
	})
	if err != nil {
		return
	}
	err = d.outbox.Enqueue(ctx, &models.OutboxMessage{
		ID:        uuid.New().String(),
		Kind:      models.OutboxKindEvent,
		Payload:   body,
		Status:    models.OutboxPending,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		telemetry.Logger.Warn("enqueue event", zap.String("event", event), zap.Error(err))
	}
}
