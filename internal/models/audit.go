package models

import (
	"encoding/json"
	"time"
)

// AuditEvent is the immutable trace row written for every processed webhook
// event. Pure append: no dedup, no update.
type AuditEvent struct {
	ID          int             `db:"id"`
	Event       string          `db:"event"`
	ReferenceID *string         `db:"reference_id"`
	Payload     json.RawMessage `db:"payload"`
	CreatedAt   time.Time       `db:"created_at"`
}
