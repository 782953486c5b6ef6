package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	auditMocks "github.com/keyfold/keyfold/internal/audit/usecase/mocks"
	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/credential/usecase/mocks"
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
	cryptoService "github.com/keyfold/keyfold/internal/crypto/service"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type gatewayFixture struct {
	uc             CredentialUseCase
	credentialRepo *mocks.MockCredentialRepository
	grantRepo      *mocks.MockGrantRepository
	identityReader *mocks.MockIdentityReader
	audit          *auditMocks.MockAuditUseCase
	txManager      *mocks.FakeTxManager
	codec          cryptoService.FieldCodec
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	masterKey, err := cryptoDomain.NewMasterKey(bytesOf(32))
	require.NoError(t, err)
	cipher, err := cryptoService.NewAESGCM(masterKey)
	require.NoError(t, err)

	f := &gatewayFixture{
		credentialRepo: new(mocks.MockCredentialRepository),
		grantRepo:      new(mocks.MockGrantRepository),
		identityReader: new(mocks.MockIdentityReader),
		audit:          new(auditMocks.MockAuditUseCase),
		txManager:      new(mocks.FakeTxManager),
		codec:          cryptoService.NewFieldCodec(cipher),
	}
	f.uc = NewCredentialUseCase(
		f.txManager, f.credentialRepo, f.grantRepo, f.identityReader, f.codec, f.audit,
	)
	return f
}

func bytesOf(n int) []byte {
	return []byte(strings.Repeat("k", n))
}

// expectAudit captures the single audit event the operation must emit.
func (f *gatewayFixture) expectAudit(captured **auditDomain.AuditEvent) {
	f.audit.On("Record", mock.Anything, mock.AnythingOfType("*domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			*captured = args.Get(1).(*auditDomain.AuditEvent)
		}).
		Return(nil).
		Once()
}

func (f *gatewayFixture) storedCredential(
	t *testing.T,
	orgID, ownerID uuid.UUID,
) *credentialDomain.Credential {
	t.Helper()

	username, err := f.codec.EncryptField("svc-user")
	require.NoError(t, err)
	password, err := f.codec.EncryptField("s3cret")
	require.NoError(t, err)

	now := time.Now().UTC()
	return &credentialDomain.Credential{
		ID:                uuid.Must(uuid.NewV7()),
		OrganizationID:    orgID,
		OwnerID:           ownerID,
		Name:              "prod-db",
		EncryptedUsername: username,
		EncryptedPassword: password,
		Tags:              []string{"prod"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func requester(orgID uuid.UUID, role identityDomain.Role) identityDomain.Requester {
	return identityDomain.Requester{
		UserID:         uuid.Must(uuid.NewV7()),
		OrganizationID: orgID,
		Role:           role,
	}
}

func TestCredentialUseCaseCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("persists only ciphertext", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)

		var stored *credentialDomain.Credential
		f.credentialRepo.On("Create", ctx, mock.AnythingOfType("*domain.Credential")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*credentialDomain.Credential)
			}).
			Return(nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		apiKey := "api-key-123"
		plaintext, err := f.uc.Create(ctx, req, CreateCredentialInput{
			Name:     "prod-db",
			Username: "svc-user",
			Password: "s3cret",
			APIKey:   &apiKey,
			Tags:     []string{"prod"},
		})
		require.NoError(t, err)

		assert.Equal(t, req.UserID, plaintext.OwnerID)
		assert.Equal(t, "s3cret", plaintext.Password)

		require.NotNil(t, stored)
		assert.NotContains(t, stored.EncryptedUsername, "svc-user")
		assert.NotContains(t, stored.EncryptedPassword, "s3cret")
		require.NotNil(t, stored.EncryptedAPIKey)
		assert.NotContains(t, *stored.EncryptedAPIKey, "api-key-123")

		require.NotNil(t, event)
		assert.Equal(t, "credential.create", event.Action)
		assert.Equal(t, auditDomain.OutcomeAllow, event.Outcome)
		f.audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("missing required fields", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)

		_, err := f.uc.Create(ctx, req, CreateCredentialInput{Name: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.credentialRepo.AssertNotCalled(t, "Create")
	})
}

func TestCredentialUseCaseRead(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("owner reads plaintext", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		plaintext, err := f.uc.Read(ctx, req, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, "svc-user", plaintext.Username)
		assert.Equal(t, "s3cret", plaintext.Password)

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeAllow, event.Outcome)
		assert.Equal(t, "owner", event.Reason)
	})

	t.Run("no grant reads as not found", func(t *testing.T) {
		f := newGatewayFixture(t)
		owner := uuid.Must(uuid.NewV7())
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, owner)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		_, err := f.uc.Read(ctx, req, credential.ID)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeDeny, event.Outcome)
		assert.Equal(t, "no_grant", event.Reason)
	})

	t.Run("missing credential audits the same deny shape", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credID := uuid.Must(uuid.NewV7())

		f.credentialRepo.On("Get", ctx, orgID, credID).Return(nil, credentialDomain.ErrCredentialNotFound)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		_, err := f.uc.Read(ctx, req, credID)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeDeny, event.Outcome)
	})

	t.Run("viewer with grant reads", func(t *testing.T) {
		f := newGatewayFixture(t)
		owner := uuid.Must(uuid.NewV7())
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, owner)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{
			{CredentialID: credential.ID, UserID: req.UserID, Permission: credentialDomain.PermissionViewOnly},
		}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		plaintext, err := f.uc.Read(ctx, req, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, "svc-user", plaintext.Username)
		assert.Equal(t, "grant_view_only", event.Reason)
	})

	t.Run("audit failure does not fail the read", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.audit.On("Record", mock.Anything, mock.Anything).Return(apperrors.New("sink down"))

		_, err := f.uc.Read(ctx, req, credential.ID)
		assert.NoError(t, err)
	})
}

func TestCredentialUseCaseWrite(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("partial update keeps untouched ciphertext", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)
		originalUsername := credential.EncryptedUsername

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.credentialRepo.On("Update", ctx, credential).Return(nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		newPassword := "rotated"
		plaintext, err := f.uc.Write(ctx, req, credential.ID, credentialDomain.FieldUpdates{
			Password: &newPassword,
		})
		require.NoError(t, err)

		assert.Equal(t, originalUsername, credential.EncryptedUsername)
		assert.Equal(t, "rotated", plaintext.Password)

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeAllow, event.Outcome)
		assert.Equal(t, map[string]any{"fields": []string{"password"}}, event.Metadata)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)

		_, err := f.uc.Write(ctx, req, uuid.Must(uuid.NewV7()), credentialDomain.FieldUpdates{})
		assert.ErrorIs(t, err, credentialDomain.ErrEmptyUpdate)
		f.credentialRepo.AssertNotCalled(t, "Get")
	})

	t.Run("view-only grant cannot write", func(t *testing.T) {
		f := newGatewayFixture(t)
		owner := uuid.Must(uuid.NewV7())
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, owner)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{
			{CredentialID: credential.ID, UserID: req.UserID, Permission: credentialDomain.PermissionViewOnly},
		}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		name := "renamed"
		_, err := f.uc.Write(ctx, req, credential.ID, credentialDomain.FieldUpdates{Name: &name})
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		assert.Equal(t, auditDomain.OutcomeDeny, event.Outcome)
		f.credentialRepo.AssertNotCalled(t, "Update")
	})
}

func TestCredentialUseCaseShare(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("owner shares with user", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)
		targetUser := &identityDomain.User{ID: uuid.Must(uuid.NewV7()), OrganizationID: orgID}

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.identityReader.On("GetUser", ctx, targetUser.ID).Return(targetUser, nil)

		var upserted *credentialDomain.CredentialShare
		f.grantRepo.On("UpsertUserShare", ctx, mock.AnythingOfType("*domain.CredentialShare")).
			Run(func(args mock.Arguments) {
				upserted = args.Get(1).(*credentialDomain.CredentialShare)
			}).
			Return(nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Share(ctx, req, credential.ID,
			credentialDomain.ShareTarget{UserID: &targetUser.ID}, credentialDomain.PermissionEdit)
		require.NoError(t, err)

		require.NotNil(t, upserted)
		assert.Equal(t, credentialDomain.PermissionEdit, upserted.Permission)
		assert.Equal(t, map[string]any{
			"permission": "EDIT",
			"user_id":    targetUser.ID.String(),
		}, event.Metadata)
	})

	t.Run("grantee with edit cannot share", func(t *testing.T) {
		f := newGatewayFixture(t)
		owner := uuid.Must(uuid.NewV7())
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, owner)
		targetID := uuid.Must(uuid.NewV7())

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{
			{CredentialID: credential.ID, UserID: req.UserID, Permission: credentialDomain.PermissionEdit},
		}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Share(ctx, req, credential.ID,
			credentialDomain.ShareTarget{UserID: &targetID}, credentialDomain.PermissionViewOnly)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		assert.Equal(t, "insufficient_permission", event.Reason)
		f.grantRepo.AssertNotCalled(t, "UpsertUserShare")
	})

	t.Run("cross-organization target rejected", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)
		outsider := &identityDomain.User{ID: uuid.Must(uuid.NewV7()), OrganizationID: uuid.Must(uuid.NewV7())}

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.identityReader.On("GetUser", ctx, outsider.ID).Return(outsider, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Share(ctx, req, credential.ID,
			credentialDomain.ShareTarget{UserID: &outsider.ID}, credentialDomain.PermissionViewOnly)
		assert.ErrorIs(t, err, identityDomain.ErrUserNotFound)
		f.grantRepo.AssertNotCalled(t, "UpsertUserShare")

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeDeny, event.Outcome)
		assert.Equal(t, "share_target_not_found", event.Reason)
		f.audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("missing target user still leaves a trail", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)
		targetID := uuid.Must(uuid.NewV7())

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.identityReader.On("GetUser", ctx, targetID).
			Return((*identityDomain.User)(nil), identityDomain.ErrUserNotFound)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Share(ctx, req, credential.ID,
			credentialDomain.ShareTarget{UserID: &targetID}, credentialDomain.PermissionViewOnly)
		assert.ErrorIs(t, err, identityDomain.ErrUserNotFound)
		f.grantRepo.AssertNotCalled(t, "UpsertUserShare")

		require.NotNil(t, event)
		assert.Equal(t, "credential.share", event.Action)
		assert.Equal(t, auditDomain.OutcomeDeny, event.Outcome)
		assert.Equal(t, "share_target_not_found", event.Reason)
		f.audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("target lookup failure is recorded as error", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)
		teamID := uuid.Must(uuid.NewV7())

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.identityReader.On("GetTeam", ctx, orgID, teamID).
			Return((*identityDomain.Team)(nil), errors.New("connection reset"))
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Share(ctx, req, credential.ID,
			credentialDomain.ShareTarget{TeamID: &teamID}, credentialDomain.PermissionViewOnly)
		require.Error(t, err)
		f.grantRepo.AssertNotCalled(t, "UpsertTeamShare")

		require.NotNil(t, event)
		assert.Equal(t, auditDomain.OutcomeError, event.Outcome)
		assert.Equal(t, "internal_error", event.Reason)
	})

	t.Run("both user and team set rejected", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		id := uuid.Must(uuid.NewV7())

		err := f.uc.Share(ctx, req, uuid.Must(uuid.NewV7()),
			credentialDomain.ShareTarget{UserID: &id, TeamID: &id}, credentialDomain.PermissionEdit)
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidShareTarget)
	})
}

func TestCredentialUseCaseRevoke(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("idempotent revoke", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleAdmin)
		credential := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))
		targetID := uuid.Must(uuid.NewV7())

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.grantRepo.On("RevokeUserShare", ctx, credential.ID, targetID, mock.AnythingOfType("time.Time")).Return(nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Revoke(ctx, req, credential.ID, credentialDomain.ShareTarget{UserID: &targetID})
		require.NoError(t, err)
		assert.Equal(t, "admin_override", event.Reason)
	})
}

func TestCredentialUseCaseDelete(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("shares and credential removed in one transaction", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, req.UserID)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.grantRepo.On("DeleteByCredential", mock.Anything, credential.ID).Return(nil)
		f.credentialRepo.On("Delete", mock.Anything, credential.ID).Return(nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		require.NoError(t, f.uc.Delete(ctx, req, credential.ID))
		assert.Equal(t, 1, f.txManager.Calls)
		assert.Equal(t, auditDomain.OutcomeAllow, event.Outcome)
	})

	t.Run("editor cannot delete", func(t *testing.T) {
		f := newGatewayFixture(t)
		owner := uuid.Must(uuid.NewV7())
		req := requester(orgID, identityDomain.RoleUser)
		credential := f.storedCredential(t, orgID, owner)

		f.credentialRepo.On("Get", ctx, orgID, credential.ID).Return(credential, nil)
		f.grantRepo.On("ListUserShares", ctx, credential.ID).Return([]*credentialDomain.CredentialShare{
			{CredentialID: credential.ID, UserID: req.UserID, Permission: credentialDomain.PermissionEdit},
		}, nil)
		f.grantRepo.On("ListTeamShares", ctx, credential.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		err := f.uc.Delete(ctx, req, credential.ID)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		assert.Equal(t, 0, f.txManager.Calls)
	})
}

func TestCredentialUseCaseList(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("filters to readable credentials", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleUser)

		owned := f.storedCredential(t, orgID, req.UserID)
		shared := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))
		hidden := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))

		f.credentialRepo.On("ListByOrganization", ctx, orgID, 50, 0).
			Return([]*credentialDomain.Credential{owned, shared, hidden}, nil)
		f.grantRepo.On("ListUserShares", ctx, shared.ID).Return([]*credentialDomain.CredentialShare{
			{CredentialID: shared.ID, UserID: req.UserID, Permission: credentialDomain.PermissionViewOnly},
		}, nil)
		f.grantRepo.On("ListTeamShares", ctx, shared.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		f.grantRepo.On("ListUserShares", ctx, hidden.ID).Return([]*credentialDomain.CredentialShare{}, nil)
		f.grantRepo.On("ListTeamShares", ctx, hidden.ID).Return([]*credentialDomain.CredentialTeamShare{}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		credentials, err := f.uc.List(ctx, req, 50, 0)
		require.NoError(t, err)
		require.Len(t, credentials, 2)
		assert.Equal(t, owned.ID, credentials[0].ID)
		assert.Equal(t, shared.ID, credentials[1].ID)
		assert.Equal(t, auditDomain.OutcomeAllow, event.Outcome)
		assert.Equal(t, "visible_scope", event.Reason)
		assert.Equal(t, map[string]any{"count": 2}, event.Metadata)
	})

	t.Run("admin sees everything without grant lookups", func(t *testing.T) {
		f := newGatewayFixture(t)
		req := requester(orgID, identityDomain.RoleAdmin)
		a := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))
		b := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))

		f.credentialRepo.On("ListByOrganization", ctx, orgID, 50, 0).
			Return([]*credentialDomain.Credential{a, b}, nil)
		var event *auditDomain.AuditEvent
		f.expectAudit(&event)

		credentials, err := f.uc.List(ctx, req, 50, 0)
		require.NoError(t, err)
		assert.Len(t, credentials, 2)
		f.grantRepo.AssertNotCalled(t, "ListUserShares")
	})
}

func TestCredentialUseCaseRewrapAll(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.Must(uuid.NewV7())

	t.Run("re-encrypts under the target key", func(t *testing.T) {
		f := newGatewayFixture(t)

		newKey, err := cryptoDomain.NewMasterKey([]byte(strings.Repeat("n", 32)))
		require.NoError(t, err)
		newCipher, err := cryptoService.NewAESGCM(newKey)
		require.NoError(t, err)
		target := cryptoService.NewFieldCodec(newCipher)

		credential := f.storedCredential(t, orgID, uuid.Must(uuid.NewV7()))
		original := credential.EncryptedPassword

		f.credentialRepo.On("ListAll", ctx, 10, 0).
			Return([]*credentialDomain.Credential{credential}, nil).Once()
		f.credentialRepo.On("ListAll", ctx, 10, 10).
			Return([]*credentialDomain.Credential{}, nil).Once()
		f.credentialRepo.On("Update", mock.Anything, credential).Return(nil)

		count, err := f.uc.RewrapAll(ctx, target, 10, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.NotEqual(t, original, credential.EncryptedPassword)

		plaintext, err := target.DecryptField(credential.EncryptedPassword)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", plaintext)
	})
}
