// Package mocks provides mock implementations for testing identity HTTP middleware.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// MockIdentityUseCase is a mock implementation of IdentityUseCase for testing.
type MockIdentityUseCase struct {
	mock.Mock
}

var _ identityUseCase.IdentityUseCase = (*MockIdentityUseCase)(nil)

// ResolveRequester mocks the ResolveRequester method of IdentityUseCase.
func (m *MockIdentityUseCase) ResolveRequester(
	ctx context.Context,
	userID uuid.UUID,
) (identityDomain.Requester, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(identityDomain.Requester), args.Error(1)
}

// CreateOrganization mocks the CreateOrganization method of IdentityUseCase.
func (m *MockIdentityUseCase) CreateOrganization(
	ctx context.Context,
	name string,
) (*identityDomain.Organization, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Organization), args.Error(1)
}

// GetOrganization mocks the GetOrganization method of IdentityUseCase.
func (m *MockIdentityUseCase) GetOrganization(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Organization), args.Error(1)
}

// CreateUser mocks the CreateUser method of IdentityUseCase.
func (m *MockIdentityUseCase) CreateUser(
	ctx context.Context,
	organizationID uuid.UUID,
	email, name string,
	role identityDomain.Role,
	teamID *uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, organizationID, email, name, role, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// GetUser mocks the GetUser method of IdentityUseCase.
func (m *MockIdentityUseCase) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// CreateTeam mocks the CreateTeam method of IdentityUseCase.
func (m *MockIdentityUseCase) CreateTeam(
	ctx context.Context,
	organizationID uuid.UUID,
	name string,
) (*identityDomain.Team, error) {
	args := m.Called(ctx, organizationID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Team), args.Error(1)
}

// MoveUserToTeam mocks the MoveUserToTeam method of IdentityUseCase.
func (m *MockIdentityUseCase) MoveUserToTeam(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

// ChangeUserRole mocks the ChangeUserRole method of IdentityUseCase.
func (m *MockIdentityUseCase) ChangeUserRole(
	ctx context.Context,
	userID uuid.UUID,
	role identityDomain.Role,
) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}
