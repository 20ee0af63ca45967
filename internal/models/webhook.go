package models

import (
	"fmt"
	"time"
)

// Webhook event tags delivered by the payment provider.
const (
	EventPaymentCapture          = "payment.capture"
	EventPaymentSucceeded        = "payment.succeeded"
	EventCaptureSucceeded        = "capture.succeeded"
	EventPaymentAuthorization    = "payment.authorization"
	EventPaymentFailure          = "payment.failure"
	EventPaymentFailed           = "payment.failed"
	EventPaymentRequestExpiry    = "payment_request.expiry"
	EventPaymentRequestSucceeded = "payment_request.succeeded"
	EventPaymentRequestFailed    = "payment_request.failed"
)

// WebhookEvent is the provider's notification envelope. Data tolerates
// unknown fields so newer provider payloads keep parsing.
type WebhookEvent struct {
	Event      string       `json:"event" binding:"required"`
	BusinessID string       `json:"business_id"`
	Created    string       `json:"created"`
	APIVersion string       `json:"api_version,omitempty"`
	Data       EventPayload `json:"data" binding:"required"`
}

// EventPayload is the loose payload shared by all event families. Which
// fields are present depends on the family; Status is the only one the
// schema requires.
type EventPayload struct {
	ID               string   `json:"id,omitempty"`
	PaymentID        string   `json:"payment_id,omitempty"`
	ReferenceID      string   `json:"reference_id,omitempty"`
	PaymentRequestID string   `json:"payment_request_id,omitempty"`
	Status           string   `json:"status" binding:"required"`
	Amount           *float64 `json:"amount,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	ChannelCode      string   `json:"channel_code,omitempty"`
	FailureCode      string   `json:"failure_code,omitempty"`

	// Capture-family fields, normalized away by the capture adapter.
	CaptureID        string   `json:"capture_id,omitempty"`
	CaptureAmount    *float64 `json:"captured_amount,omitempty"`
	AuthorizedAmount *float64 `json:"authorized_amount,omitempty"`
}

// EventID derives the dedup identifier for an event. An explicit delivery id
// (webhook-id header) wins verbatim; otherwise the identifier is built from
// the event tag, the first available payload id, and the created timestamp.
// The fallback chain means retries that vary which ids they include derive
// different identifiers and defeat dedup; preserved behavior.
func (e *WebhookEvent) EventID(deliveryID string) string {
	if deliveryID != "" {
		return deliveryID
	}
	id := e.Data.PaymentID
	if id == "" {
		id = e.Data.ID
	}
	if id == "" {
		id = e.Data.PaymentRequestID
	}
	if id == "" {
		id = e.Data.ReferenceID
	}
	return fmt.Sprintf("%s-%s-%s", e.Event, id, e.Created)
}

// NormalizeCapture reshapes a capture.succeeded payload into the common
// payment shape: the capture id stands in for the payment id and the captured
// amount falls back to the authorized amount when absent.
func (p EventPayload) NormalizeCapture() EventPayload {
	out := p
	if out.PaymentID == "" {
		out.PaymentID = p.CaptureID
	}
	if out.Amount == nil {
		if p.CaptureAmount != nil {
			out.Amount = p.CaptureAmount
		} else {
			out.Amount = p.AuthorizedAmount
		}
	}
	return out
}

// WebhookRecord is the in-memory trace of a processed (non-duplicate) event.
// Immutable once created, retained for the process lifetime only.
type WebhookRecord struct {
	ID          string       `json:"id"`
	Event       string       `json:"event"`
	BusinessID  string       `json:"businessId"`
	Created     string       `json:"created"`
	Data        EventPayload `json:"data"`
	ReceivedAt  time.Time    `json:"receivedAt"`
	ProcessedAt time.Time    `json:"processedAt"`
}
