// Package repository implements audit event persistence for PostgreSQL and
// MySQL. Events are append-only; the only mutation is retention cleanup.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// PostgreSQLAuditEventRepository implements audit event persistence for PostgreSQL.
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditEventRepository creates a new PostgreSQL audit event repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}

// Create inserts an audit event.
func (p *PostgreSQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, p.db)

	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_events
			  (id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			   outcome, reason, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.RequestID,
		event.OrganizationID,
		event.ActorID,
		event.Action,
		event.ResourceType,
		event.ResourceID,
		event.Outcome,
		event.Reason,
		metadata,
		event.Signature,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// List returns events for an organization, newest first, with optional
// inclusive time bounds.
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	organizationID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			         outcome, reason, metadata, signature, created_at
			  FROM audit_events
			  WHERE organization_id = $1
			    AND ($2::timestamptz IS NULL OR created_at >= $2)
			    AND ($3::timestamptz IS NULL OR created_at <= $3)
			  ORDER BY created_at DESC
			  OFFSET $4 LIMIT $5`

	rows, err := querier.QueryContext(ctx, query, organizationID, createdAtFrom, createdAtTo, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// ListAll pages through every event oldest first, for signature verification.
func (p *PostgreSQLAuditEventRepository) ListAll(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			         outcome, reason, metadata, signature, created_at
			  FROM audit_events
			  ORDER BY created_at ASC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// DeleteOlderThan removes events created before the cutoff.
func (p *PostgreSQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}
	return result.RowsAffected()
}

// marshalMetadata serializes metadata to JSON, nil becoming SQL NULL.
func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit metadata")
	}
	return raw, nil
}

// scanAuditEvents reads rows into audit events, decoding metadata JSON.
func scanAuditEvents(rows *sql.Rows) ([]*auditDomain.AuditEvent, error) {
	var events []*auditDomain.AuditEvent

	for rows.Next() {
		var event auditDomain.AuditEvent
		var metadata []byte

		err := rows.Scan(
			&event.ID,
			&event.RequestID,
			&event.OrganizationID,
			&event.ActorID,
			&event.Action,
			&event.ResourceType,
			&event.ResourceID,
			&event.Outcome,
			&event.Reason,
			&metadata,
			&event.Signature,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit metadata")
			}
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}
	return events, nil
}
