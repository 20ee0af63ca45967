package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/models"
	"github.com/tiketin/payment-api/internal/service"
	"github.com/tiketin/payment-api/internal/store"
	"github.com/tiketin/payment-api/internal/utils"
)

// DeliveryIDHeader optionally carries the provider's explicit delivery id;
// when present it replaces the derived event identifier.
const DeliveryIDHeader = "webhook-id"

// WebhookHandler handles inbound provider webhooks and the admin/debug
// inspection surface.
type WebhookHandler struct {
	webhookSvc *service.WebhookService
	records    *store.WebhookStore
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(webhookSvc *service.WebhookService, records *store.WebhookStore) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc, records: records}
}

// HandlePaymentWebhook handles POST /api/v1/webhooks/payments. The callback
// token middleware has already authenticated the delivery.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.ErrorWithDetails(c, http.StatusBadRequest, utils.CodeValidationError,
			"Invalid webhook payload", validationDetails(err))
		return
	}

	result, err := h.webhookSvc.Process(c.Request.Context(), &event, c.GetHeader(DeliveryIDHeader))
	if err != nil {
		log.Error().Err(err).Str("event", event.Event).Msg("Failed to process webhook")
		utils.Error(c, http.StatusInternalServerError, utils.CodeInternalServerError, "Failed to process webhook")
		return
	}

	c.JSON(http.StatusOK, utils.WebhookResponse{
		Success:     true,
		Message:     result.Message,
		WebhookID:   result.WebhookID,
		Event:       result.Event,
		Status:      string(result.Status),
		ReferenceID: result.ReferenceID,
		Duplicate:   result.Duplicate,
	})
}

// ListWebhooks handles GET /api/v1/admin/webhooks, newest received first.
func (h *WebhookHandler) ListWebhooks(c *gin.Context) {
	records := h.records.List()
	c.JSON(http.StatusOK, gin.H{
		"webhooks": records,
		"count":    len(records),
	})
}

// GetWebhook handles GET /api/v1/admin/webhooks/:id.
func (h *WebhookHandler) GetWebhook(c *gin.Context) {
	rec := h.records.Get(c.Param("id"))
	if rec == nil {
		utils.Error(c, http.StatusNotFound, utils.CodeWebhookNotFound, "Webhook not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// validationDetails flattens gin binding errors into a per-field detail list.
func validationDetails(err error) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"message": err.Error()}}
	}
	details := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, gin.H{
			"field":   fe.Field(),
			"message": fe.Tag(),
		})
	}
	return details
}
