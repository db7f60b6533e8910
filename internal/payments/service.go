package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/processor"
	"github.com/johniman211/payssd/internal/telemetry"
)

// Notifier is the best-effort notification fan-out. Errors from it never
// affect the payment result.
type Notifier interface {
	Dispatch(ctx context.Context, event, merchantID string, payload map[string]any, adminOnly bool) error
}

type Credentials struct {
	TestSecretKey string
	LiveSecretKey string
}

type Service struct {
	merchants interfaces.MerchantRepository
	payments  interfaces.PaymentRepository
	client    interfaces.ProcessorClient
	notifier  Notifier
	creds     Credentials

	defaultCurrency string
	redirectBaseURL string
}

func NewService(
	merchants interfaces.MerchantRepository,
	payments interfaces.PaymentRepository,
	client interfaces.ProcessorClient,
	notifier Notifier,
	creds Credentials,
	defaultCurrency, redirectBaseURL string,
) *Service {
	return &Service{
		merchants:       merchants,
		payments:        payments,
		client:          client,
		notifier:        notifier,
		creds:           creds,
		defaultCurrency: defaultCurrency,
		redirectBaseURL: redirectBaseURL,
	}
}

// Initiate runs one charge attempt end to end. Flow outcomes, including
// failures, are encoded in the response body; the only error return is an
// unexpected persistence failure.
func (s *Service) Initiate(ctx context.Context, req models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	merchant, err := s.merchants.GetByID(ctx, req.MerchantID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.InitiatePaymentResponse{OK: false, Error: models.ErrMerchantNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load merchant %s: %w", req.MerchantID, err)
	}
	if merchant.VerificationStatus == models.VerificationRejected {
		return &models.InitiatePaymentResponse{OK: false, Error: models.ErrPaymentsNotAllowed}, nil
	}

	mode := SelectMode(merchant.VerificationStatus == models.VerificationApproved, s.creds.LiveSecretKey != "")

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		MerchantID:    merchant.ID,
		Amount:        decimal.NewFromFloat(*req.Amount),
		Currency:      currency,
		Status:        models.PaymentPending,
		Mode:          mode,
		LinkCode:      req.LinkCode,
		CustomerEmail: req.CustomerEmail,
		CreatedAt:     time.Now().UTC(),
	}
	payment.Reference = fmt.Sprintf("PSSD_%s_%d", payment.ID, payment.CreatedAt.Unix())

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	flow := NewFlow()

	if mode == models.ModeLive && s.creds.LiveSecretKey == "" {
		// Unreachable through SelectMode, but a misconfigured live key must
		// never leak a charge into the sandbox.
		return &models.InitiatePaymentResponse{OK: false, Error: models.ErrServerMisconfigured}, nil
	}

	// Sandbox with no credentials at all: simulate so the merchant's test
	// experience works out of the box.
	if mode == models.ModeTest && s.creds.TestSecretKey == "" {
		s.appendLog(ctx, payment.ID, "simulated_charge", map[string]any{"reason": "no sandbox credentials configured"})
		return s.simulate(ctx, flow, payment)
	}

	secret := s.creds.TestSecretKey
	if mode == models.ModeLive {
		secret = s.creds.LiveSecretKey
	}

	redirectURL := req.RedirectURL
	if redirectURL == "" {
		redirectURL = s.redirectBaseURL + "/" + payment.ID
	}

	if err := flow.To(StateProviderCalled); err != nil {
		return nil, err
	}

	resp, err := s.client.Charge(ctx, secret, processor.ChargeRequest{
		TxRef:         payment.Reference,
		Amount:        payment.Amount.String(),
		Currency:      payment.Currency,
		RedirectURL:   redirectURL,
		CustomerEmail: payment.CustomerEmail,
		LinkCode:      payment.LinkCode,
	})
	if err != nil {
		telemetry.ProcessorCalls.WithLabelValues("unreachable").Inc()
		if mode == models.ModeTest {
			s.appendLog(ctx, payment.ID, "simulated_charge", map[string]any{"error": err.Error()})
			return s.simulate(ctx, flow, payment)
		}
		s.appendLog(ctx, payment.ID, "charge_error", map[string]any{"error": err.Error()})
		s.fail(ctx, flow, payment)
		return &models.InitiatePaymentResponse{OK: false, PaymentID: payment.ID, Error: models.ErrProviderUnreachable}, nil
	}

	telemetry.ProcessorCalls.WithLabelValues(fmt.Sprintf("http_%d", resp.StatusCode)).Inc()

	s.appendLogRaw(ctx, payment.ID, "charge_response", resp.Raw)

	if resp.FlwRef != "" {
		if err := s.payments.SetProviderRef(ctx, payment.ID, resp.FlwRef); err != nil {
			telemetry.Logger.Error("persist provider ref",
				zap.String("payment_id", payment.ID), zap.Error(err))
		}
	}

	if !resp.OK {
		if mode == models.ModeTest {
			return s.simulate(ctx, flow, payment)
		}
		s.fail(ctx, flow, payment)
		s.notify(ctx, "transaction_failed", merchant.ID, payment)
		return &models.InitiatePaymentResponse{OK: false, PaymentID: payment.ID, Flutterwave: resp.Raw}, nil
	}

	// Live (and real-sandbox) charges stay pending here; the webhook
	// reconciler moves them to a terminal status.
	telemetry.PaymentsInitiated.WithLabelValues(string(mode), "provider_accepted").Inc()
	return &models.InitiatePaymentResponse{OK: true, PaymentID: payment.ID, Flutterwave: resp.Raw}, nil
}

func (s *Service) simulate(ctx context.Context, flow *Flow, payment *models.Payment) (*models.InitiatePaymentResponse, error) {
	if err := flow.To(StateSimulated); err != nil {
		return nil, err
	}

	changed, err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete simulated payment %s: %w", payment.ID, err)
	}
	if changed {
		if err := s.merchants.AdjustBalance(ctx, payment.MerchantID, payment.Amount); err != nil {
			telemetry.Logger.Error("credit merchant balance",
				zap.String("merchant_id", payment.MerchantID), zap.Error(err))
		}
	}

	if err := flow.To(StateCompleted); err != nil {
		return nil, err
	}

	s.notify(ctx, "transaction_succeeded", payment.MerchantID, payment)
	telemetry.PaymentsInitiated.WithLabelValues(string(payment.Mode), "simulated").Inc()

	return &models.InitiatePaymentResponse{OK: true, PaymentID: payment.ID, TestSimulated: true}, nil
}

func (s *Service) fail(ctx context.Context, flow *Flow, payment *models.Payment) {
	if err := flow.To(StateFailed); err != nil {
		telemetry.Logger.Error("flow transition", zap.Error(err))
		return
	}
	if _, err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentFailed); err != nil {
		telemetry.Logger.Error("mark payment failed",
			zap.String("payment_id", payment.ID), zap.Error(err))
	}
	telemetry.PaymentsInitiated.WithLabelValues(string(payment.Mode), "failed").Inc()
}

func (s *Service) notify(ctx context.Context, event, merchantID string, payment *models.Payment) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Dispatch(ctx, event, merchantID, map[string]any{
		"amount":    payment.Amount.String(),
		"currency":  payment.Currency,
		"reference": payment.Reference,
	}, false)
	if err != nil {
		telemetry.Logger.Warn("notification dispatch",
			zap.String("event", event), zap.Error(err))
	}
}

func (s *Service) appendLog(ctx context.Context, paymentID, event string, payload map[string]any) {
	raw, _ := json.Marshal(payload)
	s.appendLogRaw(ctx, paymentID, event, raw)
}

func (s *Service) appendLogRaw(ctx context.Context, paymentID, event string, payload []byte) {
	err := s.payments.AppendLog(ctx, &models.PaymentLog{
		ID:        uuid.New().String(),
		PaymentID: paymentID,
		Event:     event,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		telemetry.Logger.Error("append payment log",
			zap.String("payment_id", paymentID), zap.Error(err))
	}
}
