package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/telemetry"
)

// Drainer polls the outbox and attempts each pending delivery, retrying a
// bounded number of times before marking the row failed. It runs in its
// own goroutine and never blocks request handling.
type Drainer struct {
	Outbox       interfaces.OutboxRepository
	Mailer       interfaces.Mailer
	Publisher    interfaces.EventPublisher
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DrainOnce(ctx)
		}
	}
}

func (d *Drainer) DrainOnce(ctx context.Context) {
	messages, err := d.Outbox.FindPending(ctx, d.BatchSize)
	if err != nil {
		telemetry.Logger.Error("find pending outbox messages", zap.Error(err))
		return
	}

	for _, msg := range messages {
		if err := d.deliver(ctx, msg); err != nil {
			attempts := msg.Attempts + 1
			terminal := attempts >= d.MaxAttempts
			if markErr := d.Outbox.MarkFailed(ctx, msg.ID, attempts, terminal); markErr != nil {
				telemetry.Logger.Error("mark outbox failure", zap.String("id", msg.ID), zap.Error(markErr))
			}
			telemetry.OutboxDeliveries.WithLabelValues("failed").Inc()
			telemetry.Logger.Warn("outbox delivery failed",
				zap.String("id", msg.ID),
				zap.String("kind", msg.Kind),
				zap.Int("attempts", attempts),
				zap.Bool("terminal", terminal),
				zap.Error(err),
			)
			continue
		}

		if err := d.Outbox.MarkSent(ctx, msg.ID); err != nil {
			telemetry.Logger.Error("mark outbox sent", zap.String("id", msg.ID), zap.Error(err))
			continue
		}
		telemetry.OutboxDeliveries.WithLabelValues("sent").Inc()
	}
}

func (d *Drainer) deliver(ctx context.Context, msg models.OutboxMessage) error {
	switch msg.Kind {
	case models.OutboxKindEmail:
		return d.Mailer.Send(ctx, msg.Recipient, msg.Subject, string(msg.Payload))
	case models.OutboxKindEvent:
		return d.Publisher.Publish(ctx, msg.ID, msg.Payload)
	default:
		telemetry.Logger.Warn("unknown outbox kind", zap.String("kind", msg.Kind))
		return nil
	}
}
