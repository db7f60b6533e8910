package handlers

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
)

type fakeMerchants struct {
	byID map[string]*models.Merchant
}

func (f *fakeMerchants) Create(_ context.Context, m *models.Merchant) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMerchants) GetByID(_ context.Context, id string) (*models.Merchant, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMerchants) List(context.Context) ([]models.Merchant, error) {
	var out []models.Merchant
	for _, m := range f.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMerchants) UpdateVerification(_ context.Context, id string, status models.VerificationStatus, note string) error {
	f.byID[id].VerificationStatus = status
	f.byID[id].RejectionNote = note
	return nil
}

func (f *fakeMerchants) AdjustBalance(_ context.Context, id string, delta decimal.Decimal) error {
	f.byID[id].Balance = f.byID[id].Balance.Add(delta)
	return nil
}

type fakePayments struct {
	byID map[string]*models.Payment
	logs []models.PaymentLog
}

func newFakePayments() *fakePayments {
	return &fakePayments{byID: make(map[string]*models.Payment)}
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	copied := *p
	f.byID[p.ID] = &copied
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (f *fakePayments) ListByMerchant(_ context.Context, merchantID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.byID {
		if p.MerchantID == merchantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) SetProviderRef(_ context.Context, id, ref string) error {
	f.byID[id].ProviderRef = ref
	return nil
}

func (f *fakePayments) UpdateStatus(_ context.Context, id string, status models.PaymentStatus) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.Status != models.PaymentPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (f *fakePayments) AppendLog(_ context.Context, l *models.PaymentLog) error {
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakePayments) ListLogs(_ context.Context, paymentID string) ([]models.PaymentLog, error) {
	var out []models.PaymentLog
	for _, l := range f.logs {
		if l.PaymentID == paymentID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakePayouts struct {
	byID map[string]*models.Payout
}

func newFakePayouts() *fakePayouts {
	return &fakePayouts{byID: make(map[string]*models.Payout)}
}

func (f *fakePayouts) Create(_ context.Context, p *models.Payout) error {
	copied := *p
	f.byID[p.ID] = &copied
	return nil
}

func (f *fakePayouts) GetByID(_ context.Context, id string) (*models.Payout, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (f *fakePayouts) ListPending(context.Context) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range f.byID {
		if p.Status == models.PayoutPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayouts) UpdateStatus(_ context.Context, id string, status models.PayoutStatus) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.Status != models.PayoutPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}

type fakeAPIKeys struct {
	byKey map[string]*models.APIKey
}

func (f *fakeAPIKeys) Create(_ context.Context, k *models.APIKey) error {
	f.byKey[k.Key] = k
	return nil
}

func (f *fakeAPIKeys) GetByKey(_ context.Context, key string) (*models.APIKey, error) {
	k, ok := f.byKey[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return k, nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Dispatch(_ context.Context, event, _ string, _ map[string]any, _ bool) error {
	f.events = append(f.events, event)
	return nil
}
