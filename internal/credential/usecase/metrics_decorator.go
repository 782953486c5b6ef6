package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	"github.com/keyfold/keyfold/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics
// instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics
// recording.
func NewCredentialUseCaseWithMetrics(
	useCase CredentialUseCase,
	m metrics.BusinessMetrics,
) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "credential", operation, status)
	c.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Create records metrics for credential creation.
func (c *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	requester identityDomain.Requester,
	input CreateCredentialInput,
) (*credentialDomain.PlaintextCredential, error) {
	start := time.Now()
	credential, err := c.next.Create(ctx, requester, input)
	c.record(ctx, "create", start, err)
	return credential, err
}

// Read records metrics for credential reads.
func (c *credentialUseCaseWithMetrics) Read(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) (*credentialDomain.PlaintextCredential, error) {
	start := time.Now()
	credential, err := c.next.Read(ctx, requester, credentialID)
	c.record(ctx, "read", start, err)
	return credential, err
}

// Write records metrics for credential updates.
func (c *credentialUseCaseWithMetrics) Write(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	updates credentialDomain.FieldUpdates,
) (*credentialDomain.PlaintextCredential, error) {
	start := time.Now()
	credential, err := c.next.Write(ctx, requester, credentialID, updates)
	c.record(ctx, "write", start, err)
	return credential, err
}

// Share records metrics for share operations.
func (c *credentialUseCaseWithMetrics) Share(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
	permission credentialDomain.Permission,
) error {
	start := time.Now()
	err := c.next.Share(ctx, requester, credentialID, target, permission)
	c.record(ctx, "share", start, err)
	return err
}

// Revoke records metrics for revoke operations.
func (c *credentialUseCaseWithMetrics) Revoke(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
) error {
	start := time.Now()
	err := c.next.Revoke(ctx, requester, credentialID, target)
	c.record(ctx, "revoke", start, err)
	return err
}

// Delete records metrics for delete operations.
func (c *credentialUseCaseWithMetrics) Delete(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) error {
	start := time.Now()
	err := c.next.Delete(ctx, requester, credentialID)
	c.record(ctx, "delete", start, err)
	return err
}

// List records metrics for list operations.
func (c *credentialUseCaseWithMetrics) List(
	ctx context.Context,
	requester identityDomain.Requester,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.List(ctx, requester, limit, offset)
	c.record(ctx, "list", start, err)
	return credentials, err
}

// RewrapAll records metrics for the key rotation batch.
func (c *credentialUseCaseWithMetrics) RewrapAll(
	ctx context.Context,
	target FieldRewrapper,
	batchSize, workers int,
) (int, error) {
	start := time.Now()
	count, err := c.next.RewrapAll(ctx, target, batchSize, workers)
	c.record(ctx, "rewrap_all", start, err)
	return count, err
}
