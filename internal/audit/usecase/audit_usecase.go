package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	auditService "github.com/keyfold/keyfold/internal/audit/service"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// auditUseCase implements AuditUseCase.
type auditUseCase struct {
	repo   AuditEventRepository
	signer auditService.Signer
}

// NewAuditUseCase creates a new AuditUseCase with the provided dependencies.
func NewAuditUseCase(repo AuditEventRepository, signer auditService.Signer) AuditUseCase {
	return &auditUseCase{repo: repo, signer: signer}
}

// Record assigns identity and timestamp if missing, signs the event, and
// persists it.
func (a *auditUseCase) Record(ctx context.Context, event *auditDomain.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.Must(uuid.NewV7())
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	signature, err := a.signer.Sign(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit event")
	}
	event.Signature = signature

	if err := a.repo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to record audit event")
	}
	return nil
}

// List returns events for an organization, newest first.
func (a *auditUseCase) List(
	ctx context.Context,
	organizationID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	events, err := a.repo.List(ctx, organizationID, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}

// DeleteOlderThan removes events created before the cutoff.
func (a *auditUseCase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := a.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}
	return deleted, nil
}

// Verify checks every stored event's signature in batches.
func (a *auditUseCase) Verify(ctx context.Context, batchSize int) (int, []uuid.UUID, error) {
	var checked int
	var invalid []uuid.UUID

	for offset := 0; ; offset += batchSize {
		events, err := a.repo.ListAll(ctx, offset, batchSize)
		if err != nil {
			return checked, invalid, apperrors.Wrap(err, "failed to list audit events")
		}
		if len(events) == 0 {
			return checked, invalid, nil
		}

		for _, event := range events {
			checked++
			if err := a.signer.Verify(event); err != nil {
				invalid = append(invalid, event.ID)
			}
		}
	}
}
