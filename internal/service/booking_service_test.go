package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tiketin/payment-api/internal/models"
	"github.com/tiketin/payment-api/internal/service"
	"github.com/tiketin/payment-api/internal/service/mocks"
	"github.com/tiketin/payment-api/internal/utils"
)

func booking(payLater bool, url string) *models.Booking {
	return &models.Booking{ID: "order-1", PayLater: payLater, FulfillmentURL: url}
}

func payload(status string) models.EventPayload {
	amount := 250000.0
	return models.EventPayload{
		PaymentID:   "pay-1",
		ReferenceID: "order-1",
		Status:      status,
		Amount:      &amount,
		Currency:    "IDR",
		ChannelCode: "QRIS",
	}
}

func TestApplyPaymentUpdate_SucceededDerivesContentPending(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := service.NewBookingService(store)
	ctx := context.Background()

	store.On("GetBooking", ctx, "order-1").Return(booking(false, ""), nil).Once()
	store.On("UpdateBooking", ctx, "order-1", mock.MatchedBy(func(p *models.BookingPatch) bool {
		return p.Status != nil && *p.Status == models.BookingStatusContentPending &&
			p.Transaction.Status != nil && *p.Transaction.Status == models.StatusCompleted
	})).Return(nil).Once()

	outcome, err := svc.ApplyPaymentUpdate(ctx, "order-1", "SUCCEEDED", payload("SUCCEEDED"))

	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.Equal(t, models.StatusCompleted, outcome.Status)
	store.AssertExpectations(t)
}

func TestApplyPaymentUpdate_PendingWithURLDerivesProcessing(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := service.NewBookingService(store)
	ctx := context.Background()

	store.On("GetBooking", ctx, "order-1").Return(booking(false, "https://cdn.tiketin.id/t/1"), nil).Once()
	store.On("UpdateBooking", ctx, "order-1", mock.MatchedBy(func(p *models.BookingPatch) bool {
		return p.Status != nil && *p.Status == models.BookingStatusProcessing &&
			p.Transaction.Status != nil && *p.Transaction.Status == models.StatusPending
	})).Return(nil).Once()

	outcome, err := svc.ApplyPaymentUpdate(ctx, "order-1", "PENDING", payload("PENDING"))

	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	store.AssertExpectations(t)
}

func TestApplyPaymentUpdate_TopLevelStatusUntouched(t *testing.T) {
	cases := []struct {
		name     string
		status   string
		payLater bool
		url      string
	}{
		{"pay later booking", "SUCCEEDED", true, ""},
		{"succeeded with url", "SUCCEEDED", false, "https://cdn.tiketin.id/t/1"},
		{"failed payment", "FAILED", false, ""},
		{"expired payment", "EXPIRED", false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mocks.BookingStore)
			svc := service.NewBookingService(store)
			ctx := context.Background()

			store.On("GetBooking", ctx, "order-1").Return(booking(tc.payLater, tc.url), nil).Once()
			store.On("UpdateBooking", ctx, "order-1", mock.MatchedBy(func(p *models.BookingPatch) bool {
				return p.Status == nil
			})).Return(nil).Once()

			_, err := svc.ApplyPaymentUpdate(ctx, "order-1", tc.status, payload(tc.status))

			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}
}

func TestApplyPaymentUpdate_AbsentFieldsOmittedFromPatch(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := service.NewBookingService(store)
	ctx := context.Background()

	sparse := models.EventPayload{ReferenceID: "order-1", Status: "FAILED", FailureCode: "INSUFFICIENT_BALANCE"}

	store.On("GetBooking", ctx, "order-1").Return(booking(false, ""), nil).Once()
	store.On("UpdateBooking", ctx, "order-1", mock.MatchedBy(func(p *models.BookingPatch) bool {
		trx := p.Transaction
		return trx.PaymentID == nil && trx.Amount == nil && trx.Currency == nil &&
			trx.ChannelCode == nil && trx.PaymentRequestID == nil &&
			trx.FailureCode != nil && *trx.FailureCode == "INSUFFICIENT_BALANCE" &&
			trx.ReferenceID != nil && *trx.ReferenceID == "order-1" &&
			!trx.UpdatedAt.IsZero()
	})).Return(nil).Once()

	_, err := svc.ApplyPaymentUpdate(ctx, "order-1", "FAILED", sparse)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestApplyPaymentUpdate_BookingNotFoundSkips(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := service.NewBookingService(store)
	ctx := context.Background()

	store.On("GetBooking", ctx, "order-9").Return(nil, utils.ErrBookingNotFound).Once()

	outcome, err := svc.ApplyPaymentUpdate(ctx, "order-9", "SUCCEEDED", payload("SUCCEEDED"))

	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "booking not found", outcome.SkipReason)
	store.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPaymentUpdate_NilStoreSkips(t *testing.T) {
	svc := service.NewBookingService(nil)

	outcome, err := svc.ApplyPaymentUpdate(context.Background(), "order-1", "SUCCEEDED", payload("SUCCEEDED"))

	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "booking store not configured", outcome.SkipReason)
}

func TestApplyPaymentUpdate_UpdateFailurePropagatesWithContext(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := service.NewBookingService(store)
	ctx := context.Background()

	store.On("GetBooking", ctx, "order-1").Return(booking(false, ""), nil).Once()
	store.On("UpdateBooking", ctx, "order-1", mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := svc.ApplyPaymentUpdate(ctx, "order-1", "SUCCEEDED", payload("SUCCEEDED"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order-1")
	assert.Contains(t, err.Error(), "SUCCEEDED")
}
