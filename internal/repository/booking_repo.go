package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tiketin/payment-api/internal/models"
	"github.com/tiketin/payment-api/internal/utils"
)

// BookingRepository provides access to the bookings table. It only reads and
// merges; bookings are created elsewhere and an update against a missing row
// never creates one.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetBooking returns the booking with the given reference id.
// Returns utils.ErrBookingNotFound when no row exists.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const q = `SELECT * FROM bookings WHERE id = $1 LIMIT 1`
	var b models.Booking
	if err := r.db.GetContext(ctx, &b, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateBooking applies a partial merge: only the patch fields that are set
// become SET clauses, so absent source values are never written as NULL.
func (r *BookingRepository) UpdateBooking(ctx context.Context, id string, patch *models.BookingPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	trx := patch.Transaction
	if trx.Status != nil {
		add("trx_status", string(*trx.Status))
	}
	if trx.PaymentID != nil {
		add("trx_payment_id", *trx.PaymentID)
	}
	if trx.ReferenceID != nil {
		add("trx_reference_id", *trx.ReferenceID)
	}
	if trx.PaymentRequestID != nil {
		add("trx_payment_request_id", *trx.PaymentRequestID)
	}
	if trx.Amount != nil {
		add("trx_amount", *trx.Amount)
	}
	if trx.Currency != nil {
		add("trx_currency", *trx.Currency)
	}
	if trx.ChannelCode != nil {
		add("trx_channel_code", *trx.ChannelCode)
	}
	if trx.FailureCode != nil {
		add("trx_failure_code", *trx.FailureCode)
	}
	if !trx.UpdatedAt.IsZero() {
		add("trx_updated_at", trx.UpdatedAt)
	}

	q := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $1`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrBookingNotFound
	}
	return nil
}
