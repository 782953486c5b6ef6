// Package mocks provides mock implementations for testing identity use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// MockIdentityRepository is a mock implementation of IdentityRepository for testing.
type MockIdentityRepository struct {
	mock.Mock
}

// CreateOrganization mocks the CreateOrganization method of IdentityRepository.
func (m *MockIdentityRepository) CreateOrganization(
	ctx context.Context,
	org *identityDomain.Organization,
) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// GetOrganization mocks the GetOrganization method of IdentityRepository.
func (m *MockIdentityRepository) GetOrganization(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Organization), args.Error(1)
}

// CreateUser mocks the CreateUser method of IdentityRepository.
func (m *MockIdentityRepository) CreateUser(ctx context.Context, user *identityDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetUser mocks the GetUser method of IdentityRepository.
func (m *MockIdentityRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// UpdateUserTeam mocks the UpdateUserTeam method of IdentityRepository.
func (m *MockIdentityRepository) UpdateUserTeam(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

// UpdateUserRole mocks the UpdateUserRole method of IdentityRepository.
func (m *MockIdentityRepository) UpdateUserRole(
	ctx context.Context,
	userID uuid.UUID,
	role identityDomain.Role,
) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// CreateTeam mocks the CreateTeam method of IdentityRepository.
func (m *MockIdentityRepository) CreateTeam(ctx context.Context, team *identityDomain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

// GetTeam mocks the GetTeam method of IdentityRepository.
func (m *MockIdentityRepository) GetTeam(
	ctx context.Context,
	organizationID, teamID uuid.UUID,
) (*identityDomain.Team, error) {
	args := m.Called(ctx, organizationID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Team), args.Error(1)
}
