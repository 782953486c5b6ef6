package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// IdentityUseCase defines the business operations for organizations, users
// and teams.
type IdentityUseCase interface {
	// ResolveRequester loads the user identified by userID and maps them to
	// the requester snapshot used for access decisions.
	ResolveRequester(ctx context.Context, userID uuid.UUID) (identityDomain.Requester, error)
	// CreateOrganization creates a new organization.
	CreateOrganization(ctx context.Context, name string) (*identityDomain.Organization, error)
	// GetOrganization retrieves an organization by ID.
	GetOrganization(ctx context.Context, id uuid.UUID) (*identityDomain.Organization, error)
	// CreateUser creates a new user in the given organization.
	CreateUser(
		ctx context.Context,
		organizationID uuid.UUID,
		email, name string,
		role identityDomain.Role,
		teamID *uuid.UUID,
	) (*identityDomain.User, error)
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
	// CreateTeam creates a new team in the given organization.
	CreateTeam(ctx context.Context, organizationID uuid.UUID, name string) (*identityDomain.Team, error)
	// MoveUserToTeam places a user in a team, or removes them from any team
	// when teamID is nil. Access through the previous team ends immediately.
	MoveUserToTeam(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) error
	// ChangeUserRole updates a user's role.
	ChangeUserRole(ctx context.Context, userID uuid.UUID, role identityDomain.Role) error
}

// IdentityRepository defines the persistence operations for identity data.
type IdentityRepository interface {
	CreateOrganization(ctx context.Context, org *identityDomain.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*identityDomain.Organization, error)
	CreateUser(ctx context.Context, user *identityDomain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
	UpdateUserTeam(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) error
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role identityDomain.Role) error
	CreateTeam(ctx context.Context, team *identityDomain.Team) error
	GetTeam(ctx context.Context, organizationID, teamID uuid.UUID) (*identityDomain.Team, error)
}
