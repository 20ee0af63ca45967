package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiketin/payment-api/pkg/xendit"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	xendit *xendit.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(client *xendit.Client) *HealthHandler {
	return &HealthHandler{xendit: client}
}

// GetHealth responds with service and provider status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	providerStatus := "connected"
	if _, err := h.xendit.GetBalance(c.Request.Context()); err != nil {
		providerStatus = "disconnected"
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"provider": gin.H{
			"status": providerStatus,
		},
	})
}
