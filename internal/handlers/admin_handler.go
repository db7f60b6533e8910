package handlers

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/payments"
	"github.com/johniman211/payssd/internal/telemetry"
)

type AdminHandler struct {
	merchants interfaces.MerchantRepository
	payouts   interfaces.PayoutRepository
	notifier  payments.Notifier

	adminEmail    string
	adminPassword string
	jwtSecret     string
}

func NewAdminHandler(
	merchants interfaces.MerchantRepository,
	payouts interfaces.PayoutRepository,
	notifier payments.Notifier,
	adminEmail, adminPassword, jwtSecret string,
) *AdminHandler {
	return &AdminHandler{
		merchants:     merchants,
		payouts:       payouts,
		notifier:      notifier,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.adminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) == 1
	if h.adminEmail == "" || !emailOK || !passwordOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Email,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func (h *AdminHandler) ListMerchants(c *gin.Context) {
	list, err := h.merchants.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch merchants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchants": list})
}

// DecideKYC flips a merchant's verification status and notifies them.
func (h *AdminHandler) DecideKYC(c *gin.Context) {
	merchantID := c.Param("id")

	var req models.KYCDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	var status models.VerificationStatus
	var event string
	switch req.Decision {
	case "approved":
		status, event = models.VerificationApproved, "merchant_approved"
	case "rejected":
		status, event = models.VerificationRejected, "merchant_rejected"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.merchants.GetByID(ctx, merchantID); errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrMerchantNotFound})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	if err := h.merchants.UpdateVerification(ctx, merchantID, status, req.Note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	h.dispatch(ctx, event, merchantID, map[string]any{"note": req.Note})

	c.JSON(http.StatusOK, gin.H{"ok": true, "verification_status": status})
}

func (h *AdminHandler) ListPendingPayouts(c *gin.Context) {
	list, err := h.payouts.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payouts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": list})
}

// DecidePayout settles a pending payout. Approval debits the merchant
// balance; a settled payout is never reopened.
func (h *AdminHandler) DecidePayout(c *gin.Context) {
	payoutID := c.Param("id")

	var req models.KYCDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	ctx := c.Request.Context()
	payout, err := h.payouts.GetByID(ctx, payoutID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}

	var status models.PayoutStatus
	var event string
	switch req.Decision {
	case "approved":
		status, event = models.PayoutCompleted, "payout_approved"
	case "rejected":
		status, event = models.PayoutFailed, "payout_rejected"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRequest})
		return
	}

	changed, err := h.payouts.UpdateStatus(ctx, payoutID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternal})
		return
	}
	if !changed {
		c.JSON(http.StatusConflict, gin.H{"error": "payout already settled"})
		return
	}

	if status == models.PayoutCompleted {
		if err := h.merchants.AdjustBalance(ctx, payout.MerchantID, payout.Amount.Neg()); err != nil {
			telemetry.Logger.Error("debit merchant balance",
				zap.String("merchant_id", payout.MerchantID), zap.Error(err))
		}
	}

	h.dispatch(ctx, event, payout.MerchantID, map[string]any{"amount": payout.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}

func (h *AdminHandler) dispatch(ctx context.Context, event, merchantID string, payload map[string]any) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Dispatch(ctx, event, merchantID, payload, false); err != nil {
		telemetry.Logger.Warn("admin notification", zap.String("event", event), zap.Error(err))
	}
}
