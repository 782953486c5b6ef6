package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// CreateCredentialInput carries the plaintext fields for a new credential.
// Secret fields are encrypted before anything is persisted.
type CreateCredentialInput struct {
	Name     string
	Username string
	Password string
	APIKey   *string
	Notes    *string
	Tags     []string
}

// CredentialUseCase is the single entry point for credential operations.
// Every method resolves the requester's effective permission before touching
// plaintext and records exactly one audit event, whether it allows, denies,
// or fails.
//
// Denied operations and operations on credentials that do not exist both
// return ErrCredentialNotFound; callers cannot distinguish the two.
type CredentialUseCase interface {
	// Create stores a new credential owned by the requester.
	Create(
		ctx context.Context,
		requester identityDomain.Requester,
		input CreateCredentialInput,
	) (*credentialDomain.PlaintextCredential, error)

	// Read decrypts and returns a credential the requester may view.
	Read(
		ctx context.Context,
		requester identityDomain.Requester,
		credentialID uuid.UUID,
	) (*credentialDomain.PlaintextCredential, error)

	// Write applies a partial update. Unchanged fields keep their stored
	// cipher records; only supplied fields are re-encrypted.
	Write(
		ctx context.Context,
		requester identityDomain.Requester,
		credentialID uuid.UUID,
		updates credentialDomain.FieldUpdates,
	) (*credentialDomain.PlaintextCredential, error)

	// Share grants a permission to a user or team. Re-sharing the same
	// subject replaces the previous grant, reactivating it if revoked.
	Share(
		ctx context.Context,
		requester identityDomain.Requester,
		credentialID uuid.UUID,
		target credentialDomain.ShareTarget,
		permission credentialDomain.Permission,
	) error

	// Revoke withdraws the grant for a user or team. Revoking a grant that
	// does not exist or is already revoked succeeds without effect.
	Revoke(
		ctx context.Context,
		requester identityDomain.Requester,
		credentialID uuid.UUID,
		target credentialDomain.ShareTarget,
	) error

	// Delete removes the credential and all of its share rows atomically.
	Delete(
		ctx context.Context,
		requester identityDomain.Requester,
		credentialID uuid.UUID,
	) error

	// List returns the credentials the requester can read, without
	// decrypting any secret fields.
	List(
		ctx context.Context,
		requester identityDomain.Requester,
		limit, offset int,
	) ([]*credentialDomain.Credential, error)

	// RewrapAll re-encrypts every credential's secret fields in batches,
	// decrypting with the current codec and encrypting with the target one.
	// Used by the key rotation command; requires direct database access, not
	// a requester.
	RewrapAll(ctx context.Context, target FieldRewrapper, batchSize, workers int) (int, error)
}

// FieldRewrapper re-encrypts a serialized cipher record under a new key.
type FieldRewrapper interface {
	EncryptField(plaintext string) (string, error)
	EncryptOptional(plaintext *string) (*string, error)
}

// CredentialRepository persists credentials.
type CredentialRepository interface {
	Create(ctx context.Context, credential *credentialDomain.Credential) error
	Get(ctx context.Context, organizationID, credentialID uuid.UUID) (*credentialDomain.Credential, error)
	Update(ctx context.Context, credential *credentialDomain.Credential) error
	Delete(ctx context.Context, credentialID uuid.UUID) error
	ListByOrganization(
		ctx context.Context,
		organizationID uuid.UUID,
		limit, offset int,
	) ([]*credentialDomain.Credential, error)
	ListAll(ctx context.Context, limit, offset int) ([]*credentialDomain.Credential, error)
}

// GrantRepository persists direct and team shares.
type GrantRepository interface {
	UpsertUserShare(ctx context.Context, share *credentialDomain.CredentialShare) error
	UpsertTeamShare(ctx context.Context, share *credentialDomain.CredentialTeamShare) error
	RevokeUserShare(ctx context.Context, credentialID, userID uuid.UUID, revokedAt time.Time) error
	RevokeTeamShare(ctx context.Context, credentialID, teamID uuid.UUID, revokedAt time.Time) error
	ListUserShares(ctx context.Context, credentialID uuid.UUID) ([]*credentialDomain.CredentialShare, error)
	ListTeamShares(ctx context.Context, credentialID uuid.UUID) ([]*credentialDomain.CredentialTeamShare, error)
	DeleteByCredential(ctx context.Context, credentialID uuid.UUID) error
}

// IdentityReader is the slice of identity persistence the gateway needs to
// validate share targets.
type IdentityReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
	GetTeam(ctx context.Context, organizationID, teamID uuid.UUID) (*identityDomain.Team, error)
}
