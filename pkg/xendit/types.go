package xendit

import "fmt"

// APIError is a non-2xx response from the provider.
type APIError struct {
	HTTPStatus int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xendit: %s (%s, http %d)", e.Message, e.ErrorCode, e.HTTPStatus)
}

// CreateInvoiceRequest creates a hosted checkout invoice. ExternalID is the
// caller's correlation key and comes back on webhook payloads as reference_id.
type CreateInvoiceRequest struct {
	ExternalID         string   `json:"external_id"`
	Amount             float64  `json:"amount"`
	Currency           string   `json:"currency,omitempty"`
	PayerEmail         string   `json:"payer_email,omitempty"`
	Description        string   `json:"description,omitempty"`
	InvoiceDuration    int      `json:"invoice_duration,omitempty"`
	SuccessRedirectURL string   `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string   `json:"failure_redirect_url,omitempty"`
	PaymentMethods     []string `json:"payment_methods,omitempty"`
}

// Invoice is the provider's invoice resource.
type Invoice struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
	PayerEmail string  `json:"payer_email,omitempty"`
	InvoiceURL string  `json:"invoice_url,omitempty"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
	Created    string  `json:"created,omitempty"`
	Updated    string  `json:"updated,omitempty"`
}

// CreatePaymentRequestRequest creates a direct channel charge.
type CreatePaymentRequestRequest struct {
	ReferenceID   string         `json:"reference_id"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	ChannelCode   string         `json:"channel_code,omitempty"`
	PaymentMethod map[string]any `json:"payment_method,omitempty"`
	Description   string         `json:"description,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// PaymentRequest is the provider's payment request resource.
type PaymentRequest struct {
	ID          string  `json:"id"`
	ReferenceID string  `json:"reference_id"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	ChannelCode string  `json:"channel_code,omitempty"`
	FailureCode string  `json:"failure_code,omitempty"`
	Created     string  `json:"created,omitempty"`
	Updated     string  `json:"updated,omitempty"`
}

// Balance is the account balance payload.
type Balance struct {
	Balance float64 `json:"balance"`
}
