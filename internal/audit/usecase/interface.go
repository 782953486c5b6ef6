// Package usecase implements audit event recording and maintenance.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
)

// AuditUseCase is the engine's audit sink plus the retention and
// verification operations exposed through the CLI.
type AuditUseCase interface {
	// Record signs and persists one audit event. The engine calls it once
	// per gateway operation and treats failures as a warning condition only.
	Record(ctx context.Context, event *auditDomain.AuditEvent) error

	// List returns events for an organization, newest first, with optional
	// inclusive time bounds (nil means unbounded).
	List(
		ctx context.Context,
		organizationID uuid.UUID,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditEvent, error)

	// DeleteOlderThan removes events created before the cutoff and returns
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Verify walks all events in batches and checks their signatures.
	// Returns the number of events checked and the IDs that failed.
	Verify(ctx context.Context, batchSize int) (int, []uuid.UUID, error)
}

// AuditEventRepository persists audit events.
type AuditEventRepository interface {
	Create(ctx context.Context, event *auditDomain.AuditEvent) error
	List(
		ctx context.Context,
		organizationID uuid.UUID,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditEvent, error)
	// ListAll pages through every event regardless of organization, oldest
	// first, for signature verification.
	ListAll(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEvent, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
