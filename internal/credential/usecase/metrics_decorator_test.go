package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	"github.com/keyfold/keyfold/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDecision(ctx context.Context, operation, outcome, reason string) {
	m.Called(ctx, operation, outcome, reason)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// stubGateway is a canned CredentialUseCase for decorator tests.
type stubGateway struct {
	CredentialUseCase
	readErr error
}

func (s *stubGateway) Read(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) (*credentialDomain.PlaintextCredential, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return &credentialDomain.PlaintextCredential{ID: credentialID}, nil
}

func (s *stubGateway) Delete(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) error {
	return nil
}

func TestMetricsDecorator_Read(t *testing.T) {
	ctx := context.Background()
	req := identityDomain.Requester{UserID: uuid.Must(uuid.NewV7())}

	t.Run("records success", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", ctx, "credential", "read", "success").Once()
		m.On("RecordDuration", ctx, "credential", "read", mock.AnythingOfType("time.Duration"), "success").Once()

		decorated := NewCredentialUseCaseWithMetrics(&stubGateway{}, m)

		_, err := decorated.Read(ctx, req, uuid.Must(uuid.NewV7()))
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("records error status", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", ctx, "credential", "read", "error").Once()
		m.On("RecordDuration", ctx, "credential", "read", mock.AnythingOfType("time.Duration"), "error").Once()

		decorated := NewCredentialUseCaseWithMetrics(&stubGateway{readErr: apperrors.ErrNotFound}, m)

		_, err := decorated.Read(ctx, req, uuid.Must(uuid.NewV7()))
		assert.Error(t, err)
		m.AssertExpectations(t)
	})
}

func TestMetricsDecorator_Delete(t *testing.T) {
	ctx := context.Background()
	req := identityDomain.Requester{UserID: uuid.Must(uuid.NewV7())}

	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "credential", "delete", "success").Once()
	m.On("RecordDuration", ctx, "credential", "delete", mock.AnythingOfType("time.Duration"), "success").Once()

	decorated := NewCredentialUseCaseWithMetrics(&stubGateway{}, m)

	assert.NoError(t, decorated.Delete(ctx, req, uuid.Must(uuid.NewV7())))
	m.AssertExpectations(t)
}
