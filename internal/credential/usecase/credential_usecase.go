// Package usecase implements the credential gateway: the orchestration layer
// that resolves effective permissions, moves field values through the codec,
// and records the audit trail for every call.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/keyfold/keyfold/internal/access"
	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	auditUsecase "github.com/keyfold/keyfold/internal/audit/usecase"
	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	cryptoService "github.com/keyfold/keyfold/internal/crypto/service"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	"github.com/keyfold/keyfold/internal/httputil"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// Audit action names, one per gateway operation.
const (
	actionCreate = "credential.create"
	actionRead   = "credential.read"
	actionWrite  = "credential.write"
	actionShare  = "credential.share"
	actionRevoke = "credential.revoke"
	actionDelete = "credential.delete"
	actionList   = "credential.list"
)

const (
	reasonInternalError  = "internal_error"
	reasonTargetNotFound = "share_target_not_found"
	reasonVisibleScope   = "visible_scope"
)

type credentialUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	grantRepo      GrantRepository
	identityReader IdentityReader
	codec          cryptoService.FieldCodec
	audit          auditUsecase.AuditUseCase
}

// NewCredentialUseCase creates the credential gateway.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	grantRepo GrantRepository,
	identityReader IdentityReader,
	codec cryptoService.FieldCodec,
	audit auditUsecase.AuditUseCase,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		grantRepo:      grantRepo,
		identityReader: identityReader,
		codec:          codec,
		audit:          audit,
	}
}

func (c *credentialUseCase) Create(
	ctx context.Context,
	requester identityDomain.Requester,
	input CreateCredentialInput,
) (*credentialDomain.PlaintextCredential, error) {
	if input.Name == "" || input.Username == "" || input.Password == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name, username and password are required")
	}

	now := time.Now().UTC()
	credential := &credentialDomain.Credential{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: requester.OrganizationID,
		OwnerID:        requester.UserID,
		Name:           input.Name,
		Tags:           input.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var err error
	if credential.EncryptedUsername, err = c.codec.EncryptField(input.Username); err != nil {
		c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	if credential.EncryptedPassword, err = c.codec.EncryptField(input.Password); err != nil {
		c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	if credential.EncryptedAPIKey, err = c.codec.EncryptOptional(input.APIKey); err != nil {
		c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	if credential.EncryptedNotes, err = c.codec.EncryptOptional(input.Notes); err != nil {
		c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}

	if err := c.credentialRepo.Create(ctx, credential); err != nil {
		c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}

	c.emit(ctx, requester, actionCreate, credential.ID, auditDomain.OutcomeAllow, string(access.ReasonOwner), nil)

	return &credentialDomain.PlaintextCredential{
		ID:             credential.ID,
		OrganizationID: credential.OrganizationID,
		OwnerID:        credential.OwnerID,
		Name:           credential.Name,
		Username:       input.Username,
		Password:       input.Password,
		APIKey:         input.APIKey,
		Notes:          input.Notes,
		Tags:           credential.Tags,
		CreatedAt:      credential.CreatedAt,
		UpdatedAt:      credential.UpdatedAt,
	}, nil
}

func (c *credentialUseCase) Read(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) (*credentialDomain.PlaintextCredential, error) {
	credential, decision, err := c.authorize(ctx, requester, credentialID, access.OperationRead)
	if err != nil {
		c.emit(ctx, requester, actionRead, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	if !decision.Allowed {
		c.emit(ctx, requester, actionRead, credentialID, auditDomain.OutcomeDeny, string(decision.Reason), nil)
		return nil, credentialDomain.ErrCredentialNotFound
	}

	plaintext, err := c.decrypt(credential)
	if err != nil {
		c.emit(ctx, requester, actionRead, credentialID, auditDomain.OutcomeError, "decryption_failed", nil)
		return nil, err
	}

	c.emit(ctx, requester, actionRead, credentialID, auditDomain.OutcomeAllow, string(decision.Reason), nil)
	return plaintext, nil
}

func (c *credentialUseCase) Write(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	updates credentialDomain.FieldUpdates,
) (*credentialDomain.PlaintextCredential, error) {
	if updates.Empty() {
		return nil, credentialDomain.ErrEmptyUpdate
	}

	credential, decision, err := c.authorize(ctx, requester, credentialID, access.OperationWrite)
	if err != nil {
		c.emit(ctx, requester, actionWrite, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	if !decision.Allowed {
		c.emit(ctx, requester, actionWrite, credentialID, auditDomain.OutcomeDeny, string(decision.Reason), nil)
		return nil, credentialDomain.ErrCredentialNotFound
	}

	changed, err := c.applyUpdates(credential, updates)
	if err != nil {
		c.emit(ctx, requester, actionWrite, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}
	credential.UpdatedAt = time.Now().UTC()

	if err := c.credentialRepo.Update(ctx, credential); err != nil {
		c.emit(ctx, requester, actionWrite, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}

	// Only field names go into the trail, never values.
	c.emit(ctx, requester, actionWrite, credentialID, auditDomain.OutcomeAllow, string(decision.Reason),
		map[string]any{"fields": changed})

	return c.decrypt(credential)
}

func (c *credentialUseCase) Share(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
	permission credentialDomain.Permission,
) error {
	if !target.Valid() {
		return credentialDomain.ErrInvalidShareTarget
	}
	if !permission.Valid() {
		return credentialDomain.ErrInvalidPermission
	}

	credential, decision, err := c.authorize(ctx, requester, credentialID, access.OperationShare)
	if err != nil {
		c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return err
	}
	if !decision.Allowed {
		c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeDeny, string(decision.Reason), nil)
		return credentialDomain.ErrCredentialNotFound
	}

	metadata := map[string]any{"permission": string(permission)}
	now := time.Now().UTC()

	switch {
	case target.UserID != nil:
		user, err := c.identityReader.GetUser(ctx, *target.UserID)
		if err != nil {
			c.emitShareTargetFailure(ctx, requester, credentialID, err)
			return err
		}
		// Grants never cross the tenant boundary.
		if user.OrganizationID != credential.OrganizationID {
			c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeDeny, reasonTargetNotFound, nil)
			return identityDomain.ErrUserNotFound
		}
		share := &credentialDomain.CredentialShare{
			ID:           uuid.Must(uuid.NewV7()),
			CredentialID: credentialID,
			UserID:       user.ID,
			Permission:   permission,
			SharedAt:     now,
		}
		if err := c.grantRepo.UpsertUserShare(ctx, share); err != nil {
			c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
			return err
		}
		metadata["user_id"] = user.ID.String()
	default:
		team, err := c.identityReader.GetTeam(ctx, credential.OrganizationID, *target.TeamID)
		if err != nil {
			c.emitShareTargetFailure(ctx, requester, credentialID, err)
			return err
		}
		share := &credentialDomain.CredentialTeamShare{
			ID:           uuid.Must(uuid.NewV7()),
			CredentialID: credentialID,
			TeamID:       team.ID,
			Permission:   permission,
			SharedAt:     now,
		}
		if err := c.grantRepo.UpsertTeamShare(ctx, share); err != nil {
			c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
			return err
		}
		metadata["team_id"] = team.ID.String()
	}

	c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeAllow, string(decision.Reason), metadata)
	return nil
}

func (c *credentialUseCase) Revoke(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	target credentialDomain.ShareTarget,
) error {
	if !target.Valid() {
		return credentialDomain.ErrInvalidShareTarget
	}

	_, decision, err := c.authorize(ctx, requester, credentialID, access.OperationShare)
	if err != nil {
		c.emit(ctx, requester, actionRevoke, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return err
	}
	if !decision.Allowed {
		c.emit(ctx, requester, actionRevoke, credentialID, auditDomain.OutcomeDeny, string(decision.Reason), nil)
		return credentialDomain.ErrCredentialNotFound
	}

	metadata := map[string]any{}
	now := time.Now().UTC()

	switch {
	case target.UserID != nil:
		if err := c.grantRepo.RevokeUserShare(ctx, credentialID, *target.UserID, now); err != nil {
			c.emit(ctx, requester, actionRevoke, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
			return err
		}
		metadata["user_id"] = target.UserID.String()
	default:
		if err := c.grantRepo.RevokeTeamShare(ctx, credentialID, *target.TeamID, now); err != nil {
			c.emit(ctx, requester, actionRevoke, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
			return err
		}
		metadata["team_id"] = target.TeamID.String()
	}

	c.emit(ctx, requester, actionRevoke, credentialID, auditDomain.OutcomeAllow, string(decision.Reason), metadata)
	return nil
}

func (c *credentialUseCase) Delete(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
) error {
	_, decision, err := c.authorize(ctx, requester, credentialID, access.OperationDelete)
	if err != nil {
		c.emit(ctx, requester, actionDelete, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return err
	}
	if !decision.Allowed {
		c.emit(ctx, requester, actionDelete, credentialID, auditDomain.OutcomeDeny, string(decision.Reason), nil)
		return credentialDomain.ErrCredentialNotFound
	}

	// Shares go first so no orphaned grant rows survive a partial failure;
	// the transaction makes the pair atomic.
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.grantRepo.DeleteByCredential(ctx, credentialID); err != nil {
			return err
		}
		return c.credentialRepo.Delete(ctx, credentialID)
	})
	if err != nil {
		c.emit(ctx, requester, actionDelete, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
		return err
	}

	c.emit(ctx, requester, actionDelete, credentialID, auditDomain.OutcomeAllow, string(decision.Reason), nil)
	return nil
}

func (c *credentialUseCase) List(
	ctx context.Context,
	requester identityDomain.Requester,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	credentials, err := c.credentialRepo.ListByOrganization(ctx, requester.OrganizationID, limit, offset)
	if err != nil {
		c.emit(ctx, requester, actionList, uuid.Nil, auditDomain.OutcomeError, reasonInternalError, nil)
		return nil, err
	}

	visible := make([]*credentialDomain.Credential, 0, len(credentials))
	for _, credential := range credentials {
		// Owners and admins skip the grant lookup.
		if credential.OwnerID == requester.UserID || requester.IsAdmin() {
			visible = append(visible, credential)
			continue
		}

		index, err := c.loadIndex(ctx, credential)
		if err != nil {
			c.emit(ctx, requester, actionList, uuid.Nil, auditDomain.OutcomeError, reasonInternalError, nil)
			return nil, err
		}
		if access.Resolve(requester, index, access.OperationRead).Allowed {
			visible = append(visible, credential)
		}
	}

	c.emit(ctx, requester, actionList, uuid.Nil, auditDomain.OutcomeAllow, reasonVisibleScope, map[string]any{"count": len(visible)})
	return visible, nil
}

func (c *credentialUseCase) RewrapAll(
	ctx context.Context,
	target FieldRewrapper,
	batchSize, workers int,
) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	if workers <= 0 {
		workers = 4
	}

	total := 0
	offset := 0
	for {
		credentials, err := c.credentialRepo.ListAll(ctx, batchSize, offset)
		if err != nil {
			return total, err
		}
		if len(credentials) == 0 {
			return total, nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, credential := range credentials {
			g.Go(func() error {
				if err := c.rewrap(credential, target); err != nil {
					return err
				}
				return c.credentialRepo.Update(gctx, credential)
			})
		}
		if err := g.Wait(); err != nil {
			return total, err
		}

		total += len(credentials)
		offset += batchSize
	}
}

// rewrap decrypts every secret field with the current codec and re-encrypts
// it with the target.
func (c *credentialUseCase) rewrap(credential *credentialDomain.Credential, target FieldRewrapper) error {
	username, err := c.codec.DecryptField(credential.EncryptedUsername)
	if err != nil {
		return err
	}
	password, err := c.codec.DecryptField(credential.EncryptedPassword)
	if err != nil {
		return err
	}
	apiKey, err := c.codec.DecryptOptional(credential.EncryptedAPIKey)
	if err != nil {
		return err
	}
	notes, err := c.codec.DecryptOptional(credential.EncryptedNotes)
	if err != nil {
		return err
	}

	if credential.EncryptedUsername, err = target.EncryptField(username); err != nil {
		return err
	}
	if credential.EncryptedPassword, err = target.EncryptField(password); err != nil {
		return err
	}
	if credential.EncryptedAPIKey, err = target.EncryptOptional(apiKey); err != nil {
		return err
	}
	if credential.EncryptedNotes, err = target.EncryptOptional(notes); err != nil {
		return err
	}
	credential.UpdatedAt = time.Now().UTC()
	return nil
}

// authorize loads the credential and its active grants and resolves the
// requested operation. A credential invisible to the requester's
// organization comes back as a not-found deny decision; err is reserved for
// infrastructure failures.
func (c *credentialUseCase) authorize(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	op access.Operation,
) (*credentialDomain.Credential, access.Decision, error) {
	credential, err := c.credentialRepo.Get(ctx, requester.OrganizationID, credentialID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, access.Decision{Allowed: false, Reason: access.ReasonNotFound}, nil
		}
		return nil, access.Decision{}, err
	}

	index, err := c.loadIndex(ctx, credential)
	if err != nil {
		return nil, access.Decision{}, err
	}

	return credential, access.Resolve(requester, index, op), nil
}

func (c *credentialUseCase) loadIndex(
	ctx context.Context,
	credential *credentialDomain.Credential,
) (access.GrantIndex, error) {
	userShares, err := c.grantRepo.ListUserShares(ctx, credential.ID)
	if err != nil {
		return access.GrantIndex{}, err
	}
	teamShares, err := c.grantRepo.ListTeamShares(ctx, credential.ID)
	if err != nil {
		return access.GrantIndex{}, err
	}
	return access.BuildGrantIndex(credential, userShares, teamShares), nil
}

func (c *credentialUseCase) decrypt(
	credential *credentialDomain.Credential,
) (*credentialDomain.PlaintextCredential, error) {
	username, err := c.codec.DecryptField(credential.EncryptedUsername)
	if err != nil {
		return nil, err
	}
	password, err := c.codec.DecryptField(credential.EncryptedPassword)
	if err != nil {
		return nil, err
	}
	apiKey, err := c.codec.DecryptOptional(credential.EncryptedAPIKey)
	if err != nil {
		return nil, err
	}
	notes, err := c.codec.DecryptOptional(credential.EncryptedNotes)
	if err != nil {
		return nil, err
	}

	return &credentialDomain.PlaintextCredential{
		ID:             credential.ID,
		OrganizationID: credential.OrganizationID,
		OwnerID:        credential.OwnerID,
		Name:           credential.Name,
		Username:       username,
		Password:       password,
		APIKey:         apiKey,
		Notes:          notes,
		Tags:           credential.Tags,
		CreatedAt:      credential.CreatedAt,
		UpdatedAt:      credential.UpdatedAt,
	}, nil
}

// applyUpdates re-encrypts only the supplied fields and returns the names of
// the fields that changed.
func (c *credentialUseCase) applyUpdates(
	credential *credentialDomain.Credential,
	updates credentialDomain.FieldUpdates,
) ([]string, error) {
	var changed []string

	if updates.Name != nil {
		credential.Name = *updates.Name
		changed = append(changed, "name")
	}
	if updates.Tags != nil {
		credential.Tags = updates.Tags
		changed = append(changed, "tags")
	}
	if updates.Username != nil {
		encrypted, err := c.codec.EncryptField(*updates.Username)
		if err != nil {
			return nil, err
		}
		credential.EncryptedUsername = encrypted
		changed = append(changed, "username")
	}
	if updates.Password != nil {
		encrypted, err := c.codec.EncryptField(*updates.Password)
		if err != nil {
			return nil, err
		}
		credential.EncryptedPassword = encrypted
		changed = append(changed, "password")
	}
	switch {
	case updates.ClearAPIKey:
		credential.EncryptedAPIKey = nil
		changed = append(changed, "api_key")
	case updates.APIKey != nil:
		encrypted, err := c.codec.EncryptOptional(updates.APIKey)
		if err != nil {
			return nil, err
		}
		credential.EncryptedAPIKey = encrypted
		changed = append(changed, "api_key")
	}
	switch {
	case updates.ClearNotes:
		credential.EncryptedNotes = nil
		changed = append(changed, "notes")
	case updates.Notes != nil:
		encrypted, err := c.codec.EncryptOptional(updates.Notes)
		if err != nil {
			return nil, err
		}
		credential.EncryptedNotes = encrypted
		changed = append(changed, "notes")
	}

	return changed, nil
}

// emit records one audit event. Audit failures never fail the operation;
// they are logged and dropped.
// emitShareTargetFailure records the trail entry for a share whose target
// lookup failed after authorization already allowed the operation. A missing
// target is a deny; anything else is an internal error.
func (c *credentialUseCase) emitShareTargetFailure(
	ctx context.Context,
	requester identityDomain.Requester,
	credentialID uuid.UUID,
	err error,
) {
	if apperrors.Is(err, identityDomain.ErrUserNotFound) || apperrors.Is(err, identityDomain.ErrTeamNotFound) {
		c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeDeny, reasonTargetNotFound, nil)
		return
	}
	c.emit(ctx, requester, actionShare, credentialID, auditDomain.OutcomeError, reasonInternalError, nil)
}

func (c *credentialUseCase) emit(
	ctx context.Context,
	requester identityDomain.Requester,
	action string,
	resourceID uuid.UUID,
	outcome auditDomain.Outcome,
	reason string,
	metadata map[string]any,
) {
	event := &auditDomain.AuditEvent{
		RequestID:      httputil.RequestIDFromContext(ctx),
		OrganizationID: requester.OrganizationID,
		ActorID:        requester.UserID,
		Action:         action,
		ResourceType:   auditDomain.ResourceTypeCredential,
		ResourceID:     resourceID,
		Outcome:        outcome,
		Reason:         reason,
		Metadata:       metadata,
	}
	if err := c.audit.Record(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to record audit event",
			"action", action,
			"resource_id", resourceID.String(),
			"error", err,
		)
	}
}
