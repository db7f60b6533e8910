package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/payments"
	"github.com/johniman211/payssd/internal/telemetry"
)

// WebhookHandler reconciles live payments against processor callbacks.
// The initiation flow leaves live charges pending; this is the only place
// they reach a terminal status.
type WebhookHandler struct {
	payments      interfaces.PaymentRepository
	merchants     interfaces.MerchantRepository
	notifier      payments.Notifier
	redisClient   *redis.Client
	webhookSecret string
}

func NewWebhookHandler(
	paymentsRepo interfaces.PaymentRepository,
	merchants interfaces.MerchantRepository,
	notifier payments.Notifier,
	redisClient *redis.Client,
	webhookSecret string,
) *WebhookHandler {
	return &WebhookHandler{
		payments:      paymentsRepo,
		merchants:     merchants,
		notifier:      notifier,
		redisClient:   redisClient,
		webhookSecret: webhookSecret,
	}
}

type webhookBody struct {
	Event string `json:"event"`
	Data  struct {
		TxRef  string `json:"tx_ref"`
		FlwRef string `json:"flw_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

func (h *WebhookHandler) HandleProcessorWebhook(c *gin.Context) {
	if c.GetHeader("verif-hash") != h.webhookSecret || h.webhookSecret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidJSON})
		return
	}

	var body webhookBody
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidJSON})
		return
	}

	paymentID, ok := paymentIDFromReference(body.Data.TxRef)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized reference"})
		return
	}

	ctx := c.Request.Context()

	// Processors redeliver; a short lock suppresses concurrent duplicates,
	// and the pending-only status guard catches the rest.
	if h.redisClient != nil {
		lockKey := fmt.Sprintf("webhook_lock:%s", paymentID)
		locked, err := h.redisClient.SetNX(ctx, lockKey, "1", 30*time.Second).Result()
		if err == nil && !locked {
			c.JSON(http.StatusOK, gin.H{"ok": true, "duplicate": true})
			return
		}
		defer h.redisClient.Del(ctx, lockKey)
	}

	payment, err := h.payments.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	logErr := h.payments.AppendLog(ctx, &models.PaymentLog{
		ID:        uuid.New().String(),
		PaymentID: payment.ID,
		Event:     "webhook",
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	})
	if logErr != nil {
		telemetry.Logger.Error("append webhook log", zap.String("payment_id", payment.ID), zap.Error(logErr))
	}

	if payment.Mode != models.ModeLive || payment.Status != models.PaymentPending {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}

	status := models.PaymentFailed
	event := "transaction_failed"
	if body.Data.Status == "successful" {
		status = models.PaymentCompleted
		event = "transaction_succeeded"
	}

	changed, err := h.payments.UpdateStatus(ctx, payment.ID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}

	if body.Data.FlwRef != "" {
		if err := h.payments.SetProviderRef(ctx, payment.ID, body.Data.FlwRef); err != nil {
			telemetry.Logger.Error("persist provider ref", zap.String("payment_id", payment.ID), zap.Error(err))
		}
	}

	if status == models.PaymentCompleted {
		if err := h.merchants.AdjustBalance(ctx, payment.MerchantID, payment.Amount); err != nil {
			telemetry.Logger.Error("credit merchant balance",
				zap.String("merchant_id", payment.MerchantID), zap.Error(err))
		}
	}

	if h.notifier != nil {
		err := h.notifier.Dispatch(ctx, event, payment.MerchantID, map[string]any{
			"amount":    payment.Amount.String(),
			"currency":  payment.Currency,
			"reference": payment.Reference,
		}, false)
		if err != nil {
			telemetry.Logger.Warn("webhook notification", zap.String("event", event), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// paymentIDFromReference parses the PSSD_<payment_id>_<ts> transaction
// reference back to its payment id.
func paymentIDFromReference(ref string) (string, bool) {
	parts := strings.SplitN(ref, "_", 3)
	if len(parts) != 3 || parts[0] != "PSSD" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
