package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johniman211/payssd/internal/models"
)

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	if f.fail {
		return errors.New("relay down")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePublisher struct {
	published [][]byte
	fail      bool
}

func (f *fakePublisher) Publish(_ context.Context, _ string, payload []byte) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, payload)
	return nil
}

func newDrainer(outbox *memOutbox, mailer *fakeMailer, publisher *fakePublisher) *Drainer {
	return &Drainer{
		Outbox:       outbox,
		Mailer:       mailer,
		Publisher:    publisher,
		PollInterval: time.Millisecond,
		BatchSize:    10,
		MaxAttempts:  3,
	}
}

func TestDrainer_DeliversAndMarksSent(t *testing.T) {
	outbox := &memOutbox{messages: []models.OutboxMessage{
		{ID: "e1", Kind: models.OutboxKindEmail, Recipient: "a@b.ss", Status: models.OutboxPending},
		{ID: "v1", Kind: models.OutboxKindEvent, Payload: []byte(`{"event":"x"}`), Status: models.OutboxPending},
	}}
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}

	newDrainer(outbox, mailer, publisher).DrainOnce(context.Background())

	if len(mailer.sent) != 1 || mailer.sent[0] != "a@b.ss" {
		t.Errorf("mailer sent = %v", mailer.sent)
	}
	if len(publisher.published) != 1 {
		t.Errorf("published = %d, want 1", len(publisher.published))
	}
	for _, msg := range outbox.messages {
		if msg.Status != models.OutboxSent {
			t.Errorf("message %s status = %s, want sent", msg.ID, msg.Status)
		}
	}
}

func TestDrainer_RetriesUntilBound(t *testing.T) {
	outbox := &memOutbox{messages: []models.OutboxMessage{
		{ID: "e1", Kind: models.OutboxKindEmail, Recipient: "a@b.ss", Status: models.OutboxPending},
	}}
	mailer := &fakeMailer{fail: true}
	d := newDrainer(outbox, mailer, &fakePublisher{})

	d.DrainOnce(context.Background())
	if outbox.messages[0].Attempts != 1 || outbox.messages[0].Status != models.OutboxPending {
		t.Fatalf("after first failure: %+v", outbox.messages[0])
	}

	d.DrainOnce(context.Background())
	d.DrainOnce(context.Background())
	if outbox.messages[0].Attempts != 3 || outbox.messages[0].Status != models.OutboxFailed {
		t.Fatalf("after third failure: %+v, want terminal failed", outbox.messages[0])
	}

	// Terminal rows are no longer picked up.
	mailer.fail = false
	d.DrainOnce(context.Background())
	if len(mailer.sent) != 0 {
		t.Error("failed rows must not be redelivered")
	}
}

func TestDrainer_SentExactlyOnce(t *testing.T) {
	outbox := &memOutbox{messages: []models.OutboxMessage{
		{ID: "e1", Kind: models.OutboxKindEmail, Recipient: "a@b.ss", Status: models.OutboxPending},
	}}
	mailer := &fakeMailer{}
	d := newDrainer(outbox, mailer, &fakePublisher{})

	d.DrainOnce(context.Background())
	d.DrainOnce(context.Background())

	if len(mailer.sent) != 1 {
		t.Errorf("deliveries = %d, want exactly 1", len(mailer.sent))
	}
}
