package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/models"
	"github.com/tiketin/payment-api/internal/store"
)

// AuditStore appends an immutable trace of every processed event.
// Implemented by repository.AuditRepository.
type AuditStore interface {
	AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error
}

// WebhookResult is the outcome of one webhook delivery.
type WebhookResult struct {
	WebhookID   string
	Event       string
	Status      models.TransactionStatus
	ReferenceID string
	Duplicate   bool
	Message     string
}

// WebhookService is the event dispatcher: it dedupes deliveries, retains a
// webhook record, audits every processed event, and routes each event tag to
// exactly one handler family.
type WebhookService struct {
	dedup    store.DedupStore
	records  *store.WebhookStore
	bookings *BookingService
	audit    AuditStore
}

// NewWebhookService creates a WebhookService. audit may be nil when no
// document store is configured; processing then runs without traces.
func NewWebhookService(dedup store.DedupStore, records *store.WebhookStore, bookings *BookingService, audit AuditStore) *WebhookService {
	return &WebhookService{
		dedup:    dedup,
		records:  records,
		bookings: bookings,
		audit:    audit,
	}
}

// Process handles one authenticated, schema-valid event. deliveryID is the
// optional explicit webhook-id header value.
//
// The dedup mark happens before the handlers run, so a handler failure after
// the mark means a provider retry with the same identifier is reported as a
// duplicate and not re-executed. Acknowledged gap, preserved from the
// original design.
func (s *WebhookService) Process(ctx context.Context, event *models.WebhookEvent, deliveryID string) (*WebhookResult, error) {
	webhookID := event.EventID(deliveryID)
	receivedAt := time.Now()

	alreadySeen, err := s.dedup.MarkProcessed(ctx, webhookID)
	if err != nil {
		return nil, fmt.Errorf("dedup check failed for %s: %w", webhookID, err)
	}
	if alreadySeen {
		log.Info().Str("webhook_id", webhookID).Str("event", event.Event).
			Msg("Duplicate webhook delivery, already handled")
		return &WebhookResult{
			WebhookID: webhookID,
			Event:     event.Event,
			Duplicate: true,
			Message:   "Event already processed",
		}, nil
	}

	result, dispatchErr := s.dispatch(ctx, event)
	result.WebhookID = webhookID
	result.Event = event.Event

	// Retain the record even when a handler failed: the delivery did arrive
	// and the identifier is burned either way.
	s.records.Save(&models.WebhookRecord{
		ID:          webhookID,
		Event:       event.Event,
		BusinessID:  event.BusinessID,
		Created:     event.Created,
		Data:        event.Data,
		ReceivedAt:  receivedAt,
		ProcessedAt: time.Now(),
	})

	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return result, nil
}

// dispatch routes the event to its handler family.
func (s *WebhookService) dispatch(ctx context.Context, event *models.WebhookEvent) (*WebhookResult, error) {
	payload := event.Data
	result := &WebhookResult{Message: "Webhook processed"}

	switch event.Event {
	case models.EventPaymentCapture, models.EventPaymentSucceeded:
		return s.handlePaymentUpdate(ctx, event, payload, result)

	case models.EventCaptureSucceeded:
		return s.handlePaymentUpdate(ctx, event, payload.NormalizeCapture(), result)

	case models.EventPaymentAuthorization:
		// Funds reserved upstream; nothing to update yet.
		log.Info().Str("event", event.Event).Str("reference_id", payload.ReferenceID).
			Msg("Payment authorization received")
		result.Status = models.MapProviderStatus(payload.Status)
		result.ReferenceID = payload.ReferenceID
		result.Message = "Authorization recorded"
		return result, s.appendAudit(ctx, event)

	case models.EventPaymentFailure, models.EventPaymentFailed, models.EventPaymentRequestFailed:
		return s.handlePaymentUpdate(ctx, event, payload, result)

	case models.EventPaymentRequestExpiry:
		return s.handlePaymentUpdate(ctx, event, payload, result)

	case models.EventPaymentRequestSucceeded:
		// A payment event follows separately; audit only.
		result.Status = models.MapProviderStatus(payload.Status)
		result.ReferenceID = payload.ReferenceID
		result.Message = "Payment request recorded"
		return result, s.appendAudit(ctx, event)

	default:
		log.Warn().Str("event", event.Event).Msg("Unrecognized webhook event type")
		result.Message = "Event type not handled"
		return result, s.appendAudit(ctx, event)
	}
}

// handlePaymentUpdate audits the event and merges its outcome into the
// booking. A missing reference id means the event cannot address a booking:
// it is audited and skipped, never failed.
func (s *WebhookService) handlePaymentUpdate(ctx context.Context, event *models.WebhookEvent, payload models.EventPayload, result *WebhookResult) (*WebhookResult, error) {
	if err := s.appendAudit(ctx, event); err != nil {
		return result, err
	}

	result.ReferenceID = payload.ReferenceID
	if payload.ReferenceID == "" {
		log.Warn().Str("event", event.Event).Msg("Webhook event has no reference id, skipping booking update")
		result.Status = models.MapProviderStatus(payload.Status)
		result.Message = "No reference id, booking not updated"
		return result, nil
	}

	outcome, err := s.bookings.ApplyPaymentUpdate(ctx, payload.ReferenceID, payload.Status, payload)
	if err != nil {
		return result, err
	}
	result.Status = outcome.Status
	if !outcome.Applied {
		result.Message = fmt.Sprintf("Booking update skipped: %s", outcome.SkipReason)
	}
	return result, nil
}

// appendAudit writes the audit trace for an event. Audit failures propagate;
// a missing audit store (store-less mode) only logs.
func (s *WebhookService) appendAudit(ctx context.Context, event *models.WebhookEvent) error {
	if s.audit == nil {
		log.Warn().Str("event", event.Event).Msg("Audit store not configured, skipping audit trace")
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	audit := &models.AuditEvent{
		Event:   event.Event,
		Payload: payload,
	}
	if ref := event.Data.ReferenceID; ref != "" {
		audit.ReferenceID = &ref
	}
	if err := s.audit.AppendAuditEvent(ctx, audit); err != nil {
		return fmt.Errorf("failed to append audit event for %s: %w", event.Event, err)
	}
	return nil
}
