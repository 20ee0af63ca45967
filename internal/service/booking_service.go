package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/models"
	"github.com/tiketin/payment-api/internal/utils"
)

// BookingStore is the downstream record store the payment events update.
// Implemented by repository.BookingRepository; swapped for a shared store in
// multi-instance deployments.
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, patch *models.BookingPatch) error
}

// UpdateOutcome reports what a booking update did. Skips are normal outcomes,
// not errors: a missing booking or an unconfigured store must not fail the
// webhook delivery.
type UpdateOutcome struct {
	Applied    bool
	SkipReason string
	Status     models.TransactionStatus
}

// BookingService applies conditional partial updates to bookings from
// payment events.
type BookingService struct {
	bookings BookingStore
}

// NewBookingService creates a BookingService. A nil store is a recognized
// operating mode: every update is skipped.
func NewBookingService(bookings BookingStore) *BookingService {
	return &BookingService{bookings: bookings}
}

// ApplyPaymentUpdate merges the payment outcome into the booking identified
// by referenceID. The transaction sub-fields present in the payload are
// merged; absent fields are left alone. The derived top-level status is
// included when the fulfillment rules produce one.
func (s *BookingService) ApplyPaymentUpdate(ctx context.Context, referenceID, providerStatus string, payload models.EventPayload) (*UpdateOutcome, error) {
	mapped := models.MapProviderStatus(providerStatus)

	if s.bookings == nil {
		log.Warn().Str("reference_id", referenceID).Msg("Booking store not configured, skipping update")
		return &UpdateOutcome{SkipReason: "booking store not configured", Status: mapped}, nil
	}

	booking, err := s.bookings.GetBooking(ctx, referenceID)
	if err != nil {
		if errors.Is(err, utils.ErrBookingNotFound) {
			log.Warn().Str("reference_id", referenceID).Msg("Booking not found for payment event, skipping update")
			return &UpdateOutcome{SkipReason: "booking not found", Status: mapped}, nil
		}
		return nil, fmt.Errorf("failed to load booking %s (status %s): %w", referenceID, providerStatus, err)
	}

	patch := buildBookingPatch(mapped, booking, payload)
	if err := s.bookings.UpdateBooking(ctx, referenceID, patch); err != nil {
		return nil, fmt.Errorf("failed to update booking %s (status %s): %w", referenceID, providerStatus, err)
	}

	log.Info().
		Str("reference_id", referenceID).
		Str("provider_status", providerStatus).
		Str("status", string(mapped)).
		Msg("Booking updated from payment event")

	return &UpdateOutcome{Applied: true, Status: mapped}, nil
}

// buildBookingPatch assembles the partial merge for one payment event.
func buildBookingPatch(mapped models.TransactionStatus, booking *models.Booking, payload models.EventPayload) *models.BookingPatch {
	patch := &models.BookingPatch{
		Status: deriveBookingStatus(mapped, booking),
		Transaction: models.TransactionPatch{
			Status:    &mapped,
			UpdatedAt: time.Now(),
		},
	}

	trx := &patch.Transaction
	if payload.PaymentID != "" {
		trx.PaymentID = &payload.PaymentID
	}
	if payload.ReferenceID != "" {
		trx.ReferenceID = &payload.ReferenceID
	}
	if payload.PaymentRequestID != "" {
		trx.PaymentRequestID = &payload.PaymentRequestID
	}
	if payload.Amount != nil {
		trx.Amount = payload.Amount
	}
	if payload.Currency != "" {
		trx.Currency = &payload.Currency
	}
	if payload.ChannelCode != "" {
		trx.ChannelCode = &payload.ChannelCode
	}
	if payload.FailureCode != "" {
		trx.FailureCode = &payload.FailureCode
	}
	return patch
}

// deriveBookingStatus computes the optional top-level status from fulfillment
// readiness. Only statuses that represent a payment moving forward qualify:
//   - pay-later off and no fulfillment URL yet: content still has to be
//     produced, so the booking waits on content
//   - payment still pending with a URL already present: booking is processing
//
// Anything else leaves the top-level status untouched.
func deriveBookingStatus(mapped models.TransactionStatus, booking *models.Booking) *string {
	if !mapped.IsAdvancing() {
		return nil
	}
	if !booking.PayLater && booking.FulfillmentURL == "" {
		s := models.BookingStatusContentPending
		return &s
	}
	if mapped == models.StatusPending && !booking.PayLater && booking.FulfillmentURL != "" {
		s := models.BookingStatusProcessing
		return &s
	}
	return nil
}
