package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/payments"
	"github.com/johniman211/payssd/internal/telemetry"
)

type PaymentHandler struct {
	service *payments.Service
	repo    interfaces.PaymentRepository
}

func NewPaymentHandler(service *payments.Service, repo interfaces.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{service: service, repo: repo}
}

// InitiatePayment is the hosted-checkout entry point. It always answers
// HTTP 200; the checkout UI reads the ok field and error code from the
// body, never the status line.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrInvalidJSON})
		return
	}

	var req models.InitiatePaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrInvalidRequest})
			return
		}
		c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrInvalidJSON})
		return
	}

	if req.MerchantID == "" || req.Amount == nil {
		c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrMissingParameters})
		return
	}
	if *req.Amount <= 0 {
		c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrInvalidRequest})
		return
	}

	resp, err := h.service.Initiate(c.Request.Context(), req)
	if err != nil {
		telemetry.Logger.Error("payment initiation", zap.Error(err))
		c.JSON(http.StatusOK, models.InitiatePaymentResponse{OK: false, Error: models.ErrInternal})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListMerchantPayments returns the authenticated merchant's payments.
func (h *PaymentHandler) ListMerchantPayments(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	list, err := h.repo.ListByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": list})
}
