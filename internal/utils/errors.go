package utils

import "errors"

// API error codes surfaced in error envelopes.
const (
	CodeInvalidWebhookToken   = "INVALID_WEBHOOK_TOKEN"
	CodeConfigurationError    = "CONFIGURATION_ERROR"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeMissingIdempotencyKey = "MISSING_IDEMPOTENCY_KEY"
	CodeInvalidIdempotencyKey = "INVALID_IDEMPOTENCY_KEY"
	CodeWebhookNotFound       = "WEBHOOK_NOT_FOUND"
	CodeInternalServerError   = "INTERNAL_SERVER_ERROR"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeRateLimited           = "RATE_LIMITED"
	CodeProviderError         = "PROVIDER_ERROR"
)

// Common application errors used across services.
var (
	ErrBookingNotFound = errors.New("BOOKING_NOT_FOUND")
	ErrWebhookNotFound = errors.New("WEBHOOK_NOT_FOUND")
)
