package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/keyfold/keyfold/internal/errors"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

type identityUseCase struct {
	repo IdentityRepository
}

// NewIdentityUseCase creates a new identity use case.
func NewIdentityUseCase(repo IdentityRepository) IdentityUseCase {
	return &identityUseCase{repo: repo}
}

func (u *identityUseCase) ResolveRequester(
	ctx context.Context,
	userID uuid.UUID,
) (identityDomain.Requester, error) {
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return identityDomain.Requester{}, err
	}
	return identityDomain.Requester{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		TeamID:         user.TeamID,
	}, nil
}

func (u *identityUseCase) CreateOrganization(
	ctx context.Context,
	name string,
) (*identityDomain.Organization, error) {
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "organization name is required")
	}

	org := &identityDomain.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.repo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (u *identityUseCase) GetOrganization(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Organization, error) {
	return u.repo.GetOrganization(ctx, id)
}

func (u *identityUseCase) CreateUser(
	ctx context.Context,
	organizationID uuid.UUID,
	email, name string,
	role identityDomain.Role,
	teamID *uuid.UUID,
) (*identityDomain.User, error) {
	if email == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "user email is required")
	}
	if !role.Valid() {
		return nil, identityDomain.ErrInvalidRole
	}

	// The organization and team are verified up front so a bad reference
	// surfaces as not-found instead of a foreign key violation.
	if _, err := u.repo.GetOrganization(ctx, organizationID); err != nil {
		return nil, err
	}
	if teamID != nil {
		if _, err := u.repo.GetTeam(ctx, organizationID, *teamID); err != nil {
			return nil, err
		}
	}

	user := &identityDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: organizationID,
		Email:          email,
		Name:           name,
		Role:           role,
		TeamID:         teamID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := u.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *identityUseCase) GetUser(ctx context.Context, id uuid.UUID) (*identityDomain.User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *identityUseCase) CreateTeam(
	ctx context.Context,
	organizationID uuid.UUID,
	name string,
) (*identityDomain.Team, error) {
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "team name is required")
	}
	if _, err := u.repo.GetOrganization(ctx, organizationID); err != nil {
		return nil, err
	}

	team := &identityDomain.Team{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}
	if err := u.repo.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (u *identityUseCase) MoveUserToTeam(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) error {
	if teamID != nil {
		user, err := u.repo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := u.repo.GetTeam(ctx, user.OrganizationID, *teamID); err != nil {
			return err
		}
	}
	return u.repo.UpdateUserTeam(ctx, userID, teamID)
}

func (u *identityUseCase) ChangeUserRole(
	ctx context.Context,
	userID uuid.UUID,
	role identityDomain.Role,
) error {
	if !role.Valid() {
		return identityDomain.ErrInvalidRole
	}
	return u.repo.UpdateUserRole(ctx, userID, role)
}
