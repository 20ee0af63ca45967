package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tiketin/payment-api/internal/models"
)

func TestEventID_ExplicitDeliveryID(t *testing.T) {
	e := &models.WebhookEvent{Event: "payment.capture", Created: "2024-05-01T10:00:00Z"}
	assert.Equal(t, "delivery-123", e.EventID("delivery-123"))
}

func TestEventID_FallbackChain(t *testing.T) {
	base := models.WebhookEvent{Event: "payment.capture", Created: "2024-05-01T10:00:00Z"}

	e := base
	e.Data = models.EventPayload{PaymentID: "pay-1", ID: "obj-1", PaymentRequestID: "pr-1", ReferenceID: "ref-1"}
	assert.Equal(t, "payment.capture-pay-1-2024-05-01T10:00:00Z", e.EventID(""))

	e = base
	e.Data = models.EventPayload{ID: "obj-1", PaymentRequestID: "pr-1", ReferenceID: "ref-1"}
	assert.Equal(t, "payment.capture-obj-1-2024-05-01T10:00:00Z", e.EventID(""))

	e = base
	e.Data = models.EventPayload{PaymentRequestID: "pr-1", ReferenceID: "ref-1"}
	assert.Equal(t, "payment.capture-pr-1-2024-05-01T10:00:00Z", e.EventID(""))

	e = base
	e.Data = models.EventPayload{ReferenceID: "ref-1"}
	assert.Equal(t, "payment.capture-ref-1-2024-05-01T10:00:00Z", e.EventID(""))
}

func TestEventID_IdenticalRetriesDeriveIdenticalIDs(t *testing.T) {
	e1 := &models.WebhookEvent{Event: "payment.failed", Created: "2024-05-01T10:00:00Z",
		Data: models.EventPayload{PaymentID: "pay-9"}}
	e2 := &models.WebhookEvent{Event: "payment.failed", Created: "2024-05-01T10:00:00Z",
		Data: models.EventPayload{PaymentID: "pay-9"}}
	assert.Equal(t, e1.EventID(""), e2.EventID(""))
}

func TestNormalizeCapture(t *testing.T) {
	captured := 120.0
	authorized := 150.0

	p := models.EventPayload{CaptureID: "cap-1", CaptureAmount: &captured, AuthorizedAmount: &authorized}
	out := p.NormalizeCapture()
	assert.Equal(t, "cap-1", out.PaymentID)
	assert.Equal(t, &captured, out.Amount)

	// Captured amount absent: authorized amount stands in.
	p = models.EventPayload{CaptureID: "cap-2", AuthorizedAmount: &authorized}
	out = p.NormalizeCapture()
	assert.Equal(t, "cap-2", out.PaymentID)
	assert.Equal(t, &authorized, out.Amount)

	// An existing payment id is not overwritten.
	p = models.EventPayload{PaymentID: "pay-1", CaptureID: "cap-3"}
	out = p.NormalizeCapture()
	assert.Equal(t, "pay-1", out.PaymentID)
}
