// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	credentialUsecase "github.com/keyfold/keyfold/internal/credential/usecase"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Create mocks the Create method of CredentialUseCase.
func (m *MockCredentialUseCase) Create(
	ctx context.Context,
	requester identityDomain.Requester,
	input credentialUsecase.CreateCredentialInput,
) (*credentialDomain.PlaintextCredential, error) {
	args := m.Called(ctx, requester, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.PlaintextCredential), args.Error(1)
}

// Read mocks the Read method of CredentialUseCase.
func (m *MockCredentialUseCase) Read(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) (*credentialDomain.PlaintextCredential, error) {
	args := m.Called(ctx, requester, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.PlaintextCredential), args.Error(1)
}

// Write mocks the Write method of CredentialUseCase.
func (m *MockCredentialUseCase) Write(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	updates credentialDomain.FieldUpdates,
) (*credentialDomain.PlaintextCredential, error) {
	args := m.Called(ctx, requester, credentialID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.PlaintextCredential), args.Error(1)
}

// Share mocks the Share method of CredentialUseCase.
func (m *MockCredentialUseCase) Share(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
	permission credentialDomain.Permission,
) error {
	args := m.Called(ctx, requester, credentialID, target, permission)
	return args.Error(0)
}

// Revoke mocks the Revoke method of CredentialUseCase.
func (m *MockCredentialUseCase) Revoke(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
) error {
	args := m.Called(ctx, requester, credentialID, target)
	return args.Error(0)
}

// Delete mocks the Delete method of CredentialUseCase.
func (m *MockCredentialUseCase) Delete(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) error {
	args := m.Called(ctx, requester, credentialID)
	return args.Error(0)
}

// List mocks the List method of CredentialUseCase.
func (m *MockCredentialUseCase) List(
	ctx context.Context,
	requester identityDomain.Requester,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, requester, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// RewrapAll mocks the RewrapAll method of CredentialUseCase.
func (m *MockCredentialUseCase) RewrapAll(
	ctx context.Context,
	target credentialUsecase.FieldRewrapper,
	batchSize, workers int,
) (int, error) {
	args := m.Called(ctx, target, batchSize, workers)
	return args.Int(0), args.Error(1)
}

var _ credentialUsecase.CredentialUseCase = (*MockCredentialUseCase)(nil)
