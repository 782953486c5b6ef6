package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
)

// MockAuditEventRepository is a mock implementation of AuditEventRepository for testing.
type MockAuditEventRepository struct {
	mock.Mock
}

// Create mocks the Create method of AuditEventRepository.
func (m *MockAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// List mocks the List method of AuditEventRepository.
func (m *MockAuditEventRepository) List(
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

// ListAll mocks the ListAll method of AuditEventRepository.
func (m *MockAuditEventRepository) ListAll(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEvent), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of AuditEventRepository.
func (m *MockAuditEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
