package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/ledger"
	"github.com/tiketin/payment-api/internal/utils"
)

// IdempotencyKeyHeader is the caller-supplied retry token for write requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyMiddleware makes opted-in write routes safely retryable: the
// first request executes and its response is cached; a replay with the same
// key returns the stored status and body verbatim without re-running the
// handler chain.
type IdempotencyMiddleware struct {
	store ledger.Store
}

// NewIdempotencyMiddleware creates the middleware over the given ledger store.
func NewIdempotencyMiddleware(store ledger.Store) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// bodyCaptureWriter tees the response body so it can be stored in the ledger.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Handle validates the Idempotency-Key header, replays a cached response when
// one exists, and otherwise captures the outcome on the way out.
func (m *IdempotencyMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			utils.Error(c, 400, utils.CodeMissingIdempotencyKey, "Idempotency-Key header is required")
			c.Abort()
			return
		}
		// Canonical UUID shape only; rejected before any work is attempted.
		if _, err := uuid.Parse(key); err != nil || len(key) != 36 {
			utils.Error(c, 400, utils.CodeInvalidIdempotencyKey, "Idempotency-Key must be a UUID")
			c.Abort()
			return
		}

		compound := ledger.Key(c.Request.Method, c.Request.URL.Path, key)

		entry, err := m.store.Get(c.Request.Context(), compound)
		if err != nil {
			log.Error().Err(err).Msg("Idempotency ledger read failed")
			utils.Error(c, 500, utils.CodeInternalServerError, "Idempotency check failed")
			c.Abort()
			return
		}
		if entry != nil {
			log.Info().Str("idempotency_key", key).Str("path", c.Request.URL.Path).
				Msg("Replaying cached idempotent response")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		entry = &ledger.Entry{
			Status:      writer.Status(),
			Body:        writer.body.Bytes(),
			ContentType: writer.Header().Get("Content-Type"),
			CreatedAt:   time.Now(),
		}
		if err := m.store.Put(c.Request.Context(), compound, entry); err != nil {
			// The response already went out; a ledger write failure only costs
			// replay protection for this key.
			log.Error().Err(err).Str("idempotency_key", key).Msg("Idempotency ledger write failed")
		}
	}
}
