package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the error envelope shared by every non-2xx response.
type ErrorBody struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WebhookResponse is the envelope returned for accepted webhook deliveries,
// including duplicates (duplicates are successes, flagged for observability).
type WebhookResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	WebhookID   string `json:"webhookId"`
	Event       string `json:"event"`
	Status      string `json:"status,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
	Duplicate   bool   `json:"duplicate,omitempty"`
}

// Error writes an error response with the standard envelope.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorBody{Error: ErrorInfo{Code: code, Message: message}})
}

// ErrorWithDetails writes an error response including a detail list
// (per-field validation errors and similar).
func ErrorWithDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, ErrorBody{Error: ErrorInfo{Code: code, Message: message, Details: details}})
}
