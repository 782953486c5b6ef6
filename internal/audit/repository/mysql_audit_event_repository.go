package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// MySQLAuditEventRepository implements audit event persistence for MySQL.
type MySQLAuditEventRepository struct {
	db *sql.DB
}

// NewMySQLAuditEventRepository creates a new MySQL audit event repository.
func NewMySQLAuditEventRepository(db *sql.DB) *MySQLAuditEventRepository {
	return &MySQLAuditEventRepository{db: db}
}

// Create inserts an audit event.
func (m *MySQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, m.db)

	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_events
			  (id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			   outcome, reason, metadata, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID.String(),
		event.RequestID.String(),
		event.OrganizationID.String(),
		event.ActorID.String(),
		event.Action,
		event.ResourceType,
		event.ResourceID.String(),
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
func (m *MySQLAuditEventRepository) List(
	ctx context.Context,
	organizationID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			         outcome, reason, metadata, signature, created_at
			  FROM audit_events
			  WHERE organization_id = ?
			    AND (? IS NULL OR created_at >= ?)
			    AND (? IS NULL OR created_at <= ?)
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(
		ctx,
		query,
		organizationID.String(),
		createdAtFrom, createdAtFrom,
		createdAtTo, createdAtTo,
		limit, offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// ListAll pages through every event oldest first, for signature verification.
func (m *MySQLAuditEventRepository) ListAll(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, organization_id, actor_id, action, resource_type, resource_id,
			         outcome, reason, metadata, signature, created_at
			  FROM audit_events
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

// DeleteOlderThan removes events created before the cutoff.
func (m *MySQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}
	return result.RowsAffected()
}
