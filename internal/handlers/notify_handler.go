package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/notify"
	"github.com/johniman211/payssd/internal/telemetry"
)

type NotifyHandler struct {
	dispatcher *notify.Dispatcher
	repo       interfaces.NotificationRepository
}

func NewNotifyHandler(dispatcher *notify.Dispatcher, repo interfaces.NotificationRepository) *NotifyHandler {
	return &NotifyHandler{dispatcher: dispatcher, repo: repo}
}

func (h *NotifyHandler) Publish(c *gin.Context) {
	var req models.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": models.ErrInvalidRequest})
		return
	}

	err := h.dispatcher.Dispatch(c.Request.Context(), req.Event, req.MerchantID, req.Payload, req.AdminOnly)
	if errors.Is(err, notify.ErrUnknownEvent) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": models.ErrUnknownEvent})
		return
	}
	if err != nil {
		telemetry.Logger.Error("notification publish", zap.String("event", req.Event), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": models.ErrInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *NotifyHandler) List(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	list, err := h.repo.ListByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotifyHandler) MarkRead(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	if err := h.repo.MarkRead(c.Request.Context(), c.Param("id"), merchantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *NotifyHandler) Delete(c *gin.Context) {
	merchantID := c.GetString("merchant_id")

	if err := h.repo.Delete(c.Request.Context(), c.Param("id"), merchantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
