// Package mocks provides mock implementations for testing the credential
// gateway.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// MockCredentialRepository is a mock implementation of CredentialRepository for testing.
type MockCredentialRepository struct {
	mock.Mock
}

// Create mocks the Create method of CredentialRepository.
func (m *MockCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// Get mocks the Get method of CredentialRepository.
func (m *MockCredentialRepository) Get(
	ctx context.Context,
	organizationID, credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, organizationID, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// Update mocks the Update method of CredentialRepository.
func (m *MockCredentialRepository) Update(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// Delete mocks the Delete method of CredentialRepository.
func (m *MockCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

// ListByOrganization mocks the ListByOrganization method of CredentialRepository.
func (m *MockCredentialRepository) ListByOrganization(
	ctx context.Context,
	organizationID uuid.UUID,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// ListAll mocks the ListAll method of CredentialRepository.
func (m *MockCredentialRepository) ListAll(
	ctx context.Context,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// MockGrantRepository is a mock implementation of GrantRepository for testing.
type MockGrantRepository struct {
	mock.Mock
}

// UpsertUserShare mocks the UpsertUserShare method of GrantRepository.
func (m *MockGrantRepository) UpsertUserShare(
	ctx context.Context,
	share *credentialDomain.CredentialShare,
) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

// UpsertTeamShare mocks the UpsertTeamShare method of GrantRepository.
func (m *MockGrantRepository) UpsertTeamShare(
	ctx context.Context,
	share *credentialDomain.CredentialTeamShare,
) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

// RevokeUserShare mocks the RevokeUserShare method of GrantRepository.
func (m *MockGrantRepository) RevokeUserShare(
	ctx context.Context,
	credentialID, userID uuid.UUID,
	revokedAt time.Time,
) error {
	args := m.Called(ctx, credentialID, userID, revokedAt)
	return args.Error(0)
}

// RevokeTeamShare mocks the RevokeTeamShare method of GrantRepository.
func (m *MockGrantRepository) RevokeTeamShare(
	ctx context.Context,
	credentialID, teamID uuid.UUID,
	revokedAt time.Time,
) error {
	args := m.Called(ctx, credentialID, teamID, revokedAt)
	return args.Error(0)
}

// ListUserShares mocks the ListUserShares method of GrantRepository.
func (m *MockGrantRepository) ListUserShares(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*credentialDomain.CredentialShare, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.CredentialShare), args.Error(1)
}

// ListTeamShares mocks the ListTeamShares method of GrantRepository.
func (m *MockGrantRepository) ListTeamShares(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*credentialDomain.CredentialTeamShare, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.CredentialTeamShare), args.Error(1)
}

// DeleteByCredential mocks the DeleteByCredential method of GrantRepository.
func (m *MockGrantRepository) DeleteByCredential(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

// MockIdentityReader is a mock implementation of IdentityReader for testing.
type MockIdentityReader struct {
	mock.Mock
}

// GetUser mocks the GetUser method of IdentityReader.
func (m *MockIdentityReader) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// GetTeam mocks the GetTeam method of IdentityReader.
func (m *MockIdentityReader) GetTeam(
	ctx context.Context,
	organizationID, teamID uuid.UUID,
) (*identityDomain.Team, error) {
	args := m.Called(ctx, organizationID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Team), args.Error(1)
}
