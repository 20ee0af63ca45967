package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/utils"
	"github.com/tiketin/payment-api/pkg/xendit"
)

// PaymentHandler proxies create/get calls to the payment provider. The
// idempotency middleware guards the create routes.
type PaymentHandler struct {
	xendit *xendit.Client
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(client *xendit.Client) *PaymentHandler {
	return &PaymentHandler{xendit: client}
}

// CreateInvoice handles POST /api/v1/invoices.
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	var req xendit.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetails(c, http.StatusBadRequest, utils.CodeValidationError,
			"Invalid invoice payload", validationDetails(err))
		return
	}
	if req.ExternalID == "" || req.Amount <= 0 {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidationError,
			"external_id and a positive amount are required")
		return
	}

	inv, err := h.xendit.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		h.providerError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GetInvoice handles GET /api/v1/invoices/:id.
func (h *PaymentHandler) GetInvoice(c *gin.Context) {
	inv, err := h.xendit.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.providerError(c, err, "Failed to fetch invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// CreatePaymentRequest handles POST /api/v1/payment-requests.
func (h *PaymentHandler) CreatePaymentRequest(c *gin.Context) {
	var req xendit.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetails(c, http.StatusBadRequest, utils.CodeValidationError,
			"Invalid payment request payload", validationDetails(err))
		return
	}
	if req.ReferenceID == "" || req.Amount <= 0 || req.Currency == "" {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidationError,
			"reference_id, currency and a positive amount are required")
		return
	}

	pr, err := h.xendit.CreatePaymentRequest(c.Request.Context(), &req)
	if err != nil {
		h.providerError(c, err, "Failed to create payment request")
		return
	}
	c.JSON(http.StatusOK, pr)
}

// GetPaymentRequest handles GET /api/v1/payment-requests/:id.
func (h *PaymentHandler) GetPaymentRequest(c *gin.Context) {
	pr, err := h.xendit.GetPaymentRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.providerError(c, err, "Failed to fetch payment request")
		return
	}
	c.JSON(http.StatusOK, pr)
}

// providerError maps a provider failure onto the error envelope, passing the
// provider's HTTP status through when it is one.
func (h *PaymentHandler) providerError(c *gin.Context, err error, message string) {
	var apiErr *xendit.APIError
	if errors.As(err, &apiErr) {
		log.Warn().Int("provider_status", apiErr.HTTPStatus).Str("code", apiErr.ErrorCode).
			Msg(message)
		utils.Error(c, apiErr.HTTPStatus, utils.CodeProviderError, apiErr.Message)
		return
	}
	log.Error().Err(err).Msg(message)
	utils.Error(c, http.StatusBadGateway, utils.CodeProviderError, message)
}
