package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	service "github.com/liancar/yard/internal/service/whatsapp"
)

const whatsappObject = "whatsapp_business_account"

// WebhookHandler serves the WhatsApp Cloud API callback endpoints.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the webhook HTTP adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify echoes hub.challenge when the subscription token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	switch {
	case errors.Is(err, service.ErrVerification):
		h.logger.Warn("webhook verification rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
		c.String(http.StatusForbidden, "forbidden")
	case err != nil:
		h.logger.Error("webhook verification failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "error")
	default:
		c.String(http.StatusOK, challenge)
	}
}

// Receive handles a callback. Processing failures are logged and still
// acknowledged: messages are deduplicated, so a redelivery would be dropped.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("malformed webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Object != "" && payload.Object != whatsappObject {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("webhook processing failed", zap.Error(err), zap.Int("entries", len(payload.Entry)))
	}
	c.Status(http.StatusOK)
}
