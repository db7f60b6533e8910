package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/payments"
	"github.com/johniman211/payssd/internal/telemetry"
)

type MerchantHandler struct {
	merchants interfaces.MerchantRepository
	payouts   interfaces.PayoutRepository
	apiKeys   interfaces.APIKeyRepository
	notifier  payments.Notifier
}

func NewMerchantHandler(
	merchants interfaces.MerchantRepository,
	payouts interfaces.PayoutRepository,
	apiKeys interfaces.APIKeyRepository,
	notifier payments.Notifier,
) *MerchantHandler {
	return &MerchantHandler{
		merchants: merchants,
		payouts:   payouts,
		apiKeys:   apiKeys,
		notifier:  notifier,
	}
}

type registerMerchantRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	AccountType  string `json:"account_type"`
}

// Register creates a merchant in pending verification together with its
// first API key. The key is returned once and stored server side.
func (h *MerchantHandler) Register(c *gin.Context) {
	var req registerMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = "business"
	}

	merchant := &models.Merchant{
		ID:                 uuid.New().String(),
		BusinessName:       req.BusinessName,
		Email:              req.Email,
		AccountType:        accountType,
		VerificationStatus: models.VerificationPending,
		Balance:            decimal.Zero,
		CreatedAt:          time.Now().UTC(),
	}

	ctx := c.Request.Context()
	if err := h.merchants.Create(ctx, merchant); err != nil {
		telemetry.Logger.Error("create merchant", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	key := &models.APIKey{
		ID:         uuid.New().String(),
		MerchantID: merchant.ID,
		Key:        "pssd_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Label:      "default",
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.apiKeys.Create(ctx, key); err != nil {
		telemetry.Logger.Error("create api key", zap.String("merchant_id", merchant.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	if h.notifier != nil {
		err := h.notifier.Dispatch(ctx, "merchant_registered", merchant.ID,
			map[string]any{"business_name": merchant.BusinessName}, false)
		if err != nil {
			telemetry.Logger.Warn("registration notification", zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"merchant": merchant, "api_key": key.Key})
}

// Profile returns the authenticated merchant's account and balance.
func (h *MerchantHandler) Profile(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	merchant, err := h.merchants.GetByID(c.Request.Context(), merchantID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrMerchantNotFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	c.JSON(http.StatusOK, merchant)
}

// RequestPayout creates a pending withdrawal, bounded by the current
// balance.
func (h *MerchantHandler) RequestPayout(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	var req models.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	ctx := c.Request.Context()
	merchant, err := h.merchants.GetByID(ctx, merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.GreaterThan(merchant.Balance) {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInsufficientBalance})
		return
	}

	payout := &models.Payout{
		ID:         uuid.New().String(),
		MerchantID: merchantID,
		Amount:     amount,
		Status:     models.PayoutPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.payouts.Create(ctx, payout); err != nil {
		telemetry.Logger.Error("create payout", zap.String("merchant_id", merchantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	if h.notifier != nil {
		err := h.notifier.Dispatch(ctx, "payout_requested", merchantID,
			map[string]any{"amount": amount.String()}, false)
		if err != nil {
			telemetry.Logger.Warn("payout notification", zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, payout)
}
