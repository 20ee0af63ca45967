// Package mocks provides testify mocks for the service-layer store interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tiketin/payment-api/internal/models"
)

// BookingStore mocks service.BookingStore.
type BookingStore struct {
	mock.Mock
}

func (m *BookingStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BookingStore) UpdateBooking(ctx context.Context, id string, patch *models.BookingPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

// AuditStore mocks service.AuditStore.
type AuditStore struct {
	mock.Mock
}

func (m *AuditStore) AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
