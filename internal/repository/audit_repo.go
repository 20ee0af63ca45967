package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tiketin/payment-api/internal/models"
)

// AuditRepository appends processed-event traces to the audit_events table.
// Append-only: no dedup, no update.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AppendAuditEvent inserts a new audit row.
func (r *AuditRepository) AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	const q = `
        INSERT INTO audit_events (
            event, reference_id, payload, created_at
        ) VALUES (
            $1, $2, $3, NOW()
        )`
	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.ExecContext(ctx, event.Event, event.ReferenceID, event.Payload)
	return err
}
