// Package mocks provides mock implementations for testing audit consumers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
)

// MockAuditUseCase is a mock implementation of AuditUseCase for testing.
type MockAuditUseCase struct {
	mock.Mock
}

// Record mocks the Record method of AuditUseCase.
func (m *MockAuditUseCase) Record(ctx context.Context, event *auditDomain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// List mocks the List method of AuditUseCase.
func (m *MockAuditUseCase) List(
	ctx context.Context,
	organizationID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, organizationID, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEvent), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of AuditUseCase.
func (m *MockAuditUseCase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Verify mocks the Verify method of AuditUseCase.
func (m *MockAuditUseCase) Verify(ctx context.Context, batchSize int) (int, []uuid.UUID, error) {
	args := m.Called(ctx, batchSize)
	var ids []uuid.UUID
	if args.Get(1) != nil {
		ids = args.Get(1).([]uuid.UUID)
	}
	return args.Int(0), ids, args.Error(2)
}
