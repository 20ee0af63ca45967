package models

import "time"

type TransactionStatus string

const (
	StatusCompleted  TransactionStatus = "completed"
	StatusAuthorized TransactionStatus = "authorized"
	StatusPending    TransactionStatus = "pending"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
	StatusExpired    TransactionStatus = "expired"
	StatusUnknown    TransactionStatus = "unknown"
)

// Provider status vocabulary as delivered in webhook payloads.
const (
	ProviderStatusSucceeded  = "SUCCEEDED"
	ProviderStatusAuthorized = "AUTHORIZED"
	ProviderStatusPending    = "PENDING"
	ProviderStatusFailed     = "FAILED"
	ProviderStatusCanceled   = "CANCELED"
	ProviderStatusExpired    = "EXPIRED"
)

// MapProviderStatus maps a provider status onto the local transaction status.
// Total: any value outside the known vocabulary maps to unknown, never an error.
func MapProviderStatus(providerStatus string) TransactionStatus {
	switch providerStatus {
	case ProviderStatusSucceeded:
		return StatusCompleted
	case ProviderStatusAuthorized:
		return StatusAuthorized
	case ProviderStatusPending:
		return StatusPending
	case ProviderStatusFailed:
		return StatusFailed
	case ProviderStatusCanceled:
		return StatusCancelled
	case ProviderStatusExpired:
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// IsAdvancing reports whether the status represents a payment moving forward
// (used to gate the derived booking-status rules).
func (s TransactionStatus) IsAdvancing() bool {
	return s == StatusCompleted || s == StatusAuthorized || s == StatusPending
}

// TransactionPatch carries the transaction sub-fields of a booking update.
// Nil fields are omitted from the merge rather than written as NULL.
type TransactionPatch struct {
	Status           *TransactionStatus
	PaymentID        *string
	ReferenceID      *string
	PaymentRequestID *string
	Amount           *float64
	Currency         *string
	ChannelCode      *string
	FailureCode      *string
	UpdatedAt        time.Time
}
