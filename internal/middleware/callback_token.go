package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/utils"
)

// CallbackTokenHeader carries the provider's shared webhook secret.
const CallbackTokenHeader = "x-callback-token"

// CallbackTokenMiddleware authenticates inbound provider webhooks against the
// configured shared secret. It runs before dedup and body validation; nothing
// downstream sees a request that fails here.
type CallbackTokenMiddleware struct {
	secret      string
	rateLimiter *InvalidAuthRateLimiter
}

// NewCallbackTokenMiddleware creates the webhook authenticator.
func NewCallbackTokenMiddleware(secret string) *CallbackTokenMiddleware {
	return &CallbackTokenMiddleware{
		secret:      secret,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle rejects requests whose x-callback-token does not match the secret
// exactly. A missing secret fails closed with a configuration error.
func (m *CallbackTokenMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.secret == "" {
			log.Error().Msg("Webhook callback token not configured, rejecting delivery")
			utils.Error(c, 500, utils.CodeConfigurationError, "Webhook verification is not configured")
			c.Abort()
			return
		}

		token := c.GetHeader(CallbackTokenHeader)
		if token == "" || !utils.SecureCompare(token, m.secret) {
			m.handleAuthError(c)
			return
		}

		c.Next()
	}
}

func (m *CallbackTokenMiddleware) handleAuthError(c *gin.Context) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, utils.CodeRateLimited, "Too many invalid webhook tokens")
		c.Abort()
		return
	}

	log.Warn().Str("ip", ip).Msg("Webhook rejected: invalid callback token")
	utils.Error(c, 401, utils.CodeInvalidWebhookToken, "Invalid webhook token")
	c.Abort()
}
