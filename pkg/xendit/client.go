package xendit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the Xendit API base URL.
	DefaultBaseURL = "https://api.xendit.co"
)

// Client is a minimal HTTP client for the subset of the Xendit API this
// facade proxies: invoices, payment requests and the balance check.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	debug      bool
}

// NewClient constructs a new Xendit client with sane defaults. The API key is
// sent as the basic-auth username with an empty password, per the provider's
// convention.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// CreateInvoice creates a hosted checkout invoice.
func (c *Client) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*Invoice, error) {
	var inv Invoice
	if err := c.doRequest(ctx, http.MethodPost, "/v2/invoices", req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoice fetches one invoice by its provider id.
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	if err := c.doRequest(ctx, http.MethodGet, "/v2/invoices/"+id, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreatePaymentRequest creates a payment request (direct channel charge).
func (c *Client) CreatePaymentRequest(ctx context.Context, req *CreatePaymentRequestRequest) (*PaymentRequest, error) {
	var pr PaymentRequest
	if err := c.doRequest(ctx, http.MethodPost, "/payment_requests", req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetPaymentRequest fetches one payment request by its provider id.
func (c *Client) GetPaymentRequest(ctx context.Context, id string) (*PaymentRequest, error) {
	var pr PaymentRequest
	if err := c.doRequest(ctx, http.MethodGet, "/payment_requests/"+id, nil, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetBalance returns the account balance; used by the health endpoint as a
// provider reachability probe.
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	var b Balance
	if err := c.doRequest(ctx, http.MethodGet, "/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// doRequest performs an HTTP call against the Xendit API with JSON payloads
// and decodes the JSON response into result. Non-2xx responses are decoded
// into an *APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// Debug logging for development
	if c.debug && payload != nil {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[XENDIT] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[XENDIT] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
