package models

import "time"

// Derived top-level booking statuses computed from fulfillment readiness.
const (
	BookingStatusContentPending = "content_pending"
	BookingStatusProcessing     = "processing"
)

// Booking is the downstream record a payment event updates. It is owned by
// the booking store; this service only ever merges into an existing row and
// never creates one.
type Booking struct {
	ID             string  `db:"id" json:"id"`
	Status         *string `db:"status" json:"status,omitempty"`
	PayLater       bool    `db:"pay_later" json:"payLater"`
	FulfillmentURL string  `db:"fulfillment_url" json:"fulfillmentUrl,omitempty"`

	TrxStatus           *string    `db:"trx_status" json:"trxStatus,omitempty"`
	TrxPaymentID        *string    `db:"trx_payment_id" json:"trxPaymentId,omitempty"`
	TrxReferenceID      *string    `db:"trx_reference_id" json:"trxReferenceId,omitempty"`
	TrxPaymentRequestID *string    `db:"trx_payment_request_id" json:"trxPaymentRequestId,omitempty"`
	TrxAmount           *float64   `db:"trx_amount" json:"trxAmount,omitempty"`
	TrxCurrency         *string    `db:"trx_currency" json:"trxCurrency,omitempty"`
	TrxChannelCode      *string    `db:"trx_channel_code" json:"trxChannelCode,omitempty"`
	TrxFailureCode      *string    `db:"trx_failure_code" json:"trxFailureCode,omitempty"`
	TrxUpdatedAt        *time.Time `db:"trx_updated_at" json:"trxUpdatedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// BookingPatch is a partial merge update. Nil means "leave the column alone".
type BookingPatch struct {
	Status      *string
	Transaction TransactionPatch
}
