package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiketin/payment-api/internal/handler"
	"github.com/tiketin/payment-api/internal/middleware"
	"github.com/tiketin/payment-api/internal/service"
	"github.com/tiketin/payment-api/internal/store"
	"github.com/tiketin/payment-api/internal/utils"
)

const testCallbackToken = "whsec_test"

// newTestRouter wires the webhook surface the way cmd/api does, in store-less
// mode (no database, in-memory dedup and records).
func newTestRouter() (*gin.Engine, *store.WebhookStore) {
	gin.SetMode(gin.TestMode)

	records := store.NewWebhookStore()
	webhookSvc := service.NewWebhookService(
		store.NewMemoryDedupStore(),
		records,
		service.NewBookingService(nil),
		nil,
	)
	h := handler.NewWebhookHandler(webhookSvc, records)

	r := gin.New()
	tokenMw := middleware.NewCallbackTokenMiddleware(testCallbackToken)
	r.POST("/api/v1/webhooks/payments", tokenMw.Handle(), h.HandlePaymentWebhook)
	r.GET("/api/v1/admin/webhooks", h.ListWebhooks)
	r.GET("/api/v1/admin/webhooks/:id", h.GetWebhook)
	return r, records
}

func deliver(r *gin.Engine, body, deliveryID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CallbackTokenHeader, testCallbackToken)
	if deliveryID != "" {
		req.Header.Set(handler.DeliveryIDHeader, deliveryID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const captureBody = `{
	"event": "payment.capture",
	"business_id": "biz-1",
	"created": "2026-01-15T10:00:00Z",
	"data": {
		"payment_id": "pay-1",
		"reference_id": "order-1",
		"status": "SUCCEEDED",
		"amount": 250000,
		"currency": "IDR",
		"channel_code": "QRIS"
	}
}`

func TestHandlePaymentWebhook_Success(t *testing.T) {
	r, records := newTestRouter()

	w := deliver(r, captureBody, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp utils.WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "payment.capture", resp.Event)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "order-1", resp.ReferenceID)
	assert.Equal(t, "payment.capture-pay-1-2026-01-15T10:00:00Z", resp.WebhookID)
	assert.False(t, resp.Duplicate)
	assert.NotNil(t, records.Get(resp.WebhookID))
}

func TestHandlePaymentWebhook_DuplicateDelivery(t *testing.T) {
	r, _ := newTestRouter()

	first := deliver(r, captureBody, "delivery-1")
	require.Equal(t, http.StatusOK, first.Code)

	second := deliver(r, captureBody, "delivery-1")
	require.Equal(t, http.StatusOK, second.Code)

	var resp utils.WebhookResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Duplicate)
	assert.Equal(t, "Event already processed", resp.Message)
}

func TestHandlePaymentWebhook_InvalidPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"event": "payment.capture"`},
		{"missing event", `{"data": {"status": "SUCCEEDED"}}`},
		{"missing data status", `{"event": "payment.capture", "data": {"payment_id": "pay-1"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, records := newTestRouter()

			w := deliver(r, tc.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
			assert.Empty(t, records.List())
		})
	}
}

func TestHandlePaymentWebhook_UnauthenticatedNeverValidated(t *testing.T) {
	r, records := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader("not even json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, records.List())
}

func TestListWebhooks_NewestFirst(t *testing.T) {
	r, _ := newTestRouter()

	deliver(r, captureBody, "delivery-a")
	deliver(r, captureBody, "delivery-b")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhooks", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Webhooks []struct {
			ID string `json:"id"`
		} `json:"webhooks"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "delivery-b", resp.Webhooks[0].ID)
	assert.Equal(t, "delivery-a", resp.Webhooks[1].ID)
}

func TestGetWebhook(t *testing.T) {
	r, _ := newTestRouter()

	deliver(r, captureBody, "delivery-a")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhooks/delivery-a", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"event":"payment.capture"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhooks/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "WEBHOOK_NOT_FOUND")
}
