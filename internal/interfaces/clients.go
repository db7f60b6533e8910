package interfaces

import (
	"context"

	"github.com/johniman211/payssd/internal/processor"
)

// ProcessorClient issues one charge call against the external processor.
type ProcessorClient interface {
	Charge(ctx context.Context, secretKey string, req processor.ChargeRequest) (*processor.ChargeResponse, error)
}

// Mailer sends one message, best effort.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher pushes one business event onto the event feed.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}
