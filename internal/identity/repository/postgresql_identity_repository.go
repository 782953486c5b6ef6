// Package repository implements identity persistence for PostgreSQL and
// MySQL. All lookups used for access resolution read current rows; there is
// no caching layer, so role and team changes are visible on the next call.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// PostgreSQLIdentityRepository implements identity persistence for PostgreSQL.
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQL identity repository.
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{db: db}
}

// CreateOrganization inserts an organization.
func (p *PostgreSQLIdentityRepository) CreateOrganization(
	ctx context.Context,
	org *identityDomain.Organization,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := querier.ExecContext(ctx, query, org.ID, org.Name, org.CreatedAt); err != nil {
		if isPGUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "organization already exists")
		}
		return apperrors.Wrap(err, "failed to create organization")
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
func (p *PostgreSQLIdentityRepository) GetOrganization(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Organization, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM organizations WHERE id = $1`

	var org identityDomain.Organization
	err := querier.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, identityDomain.ErrOrganizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get organization")
	}
	return &org, nil
}

// CreateUser inserts a user.
func (p *PostgreSQLIdentityRepository) CreateUser(ctx context.Context, user *identityDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, organization_id, email, name, role, team_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.OrganizationID,
		user.Email,
		user.Name,
		user.Role,
		user.TeamID,
		user.CreatedAt,
	)
	if err != nil {
		if isPGUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "user already exists")
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetUser retrieves a user by ID, including their current team.
func (p *PostgreSQLIdentityRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, organization_id, email, name, role, team_id, created_at
			  FROM users WHERE id = $1`

	var user identityDomain.User
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.OrganizationID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.TeamID,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, identityDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return &user, nil
}

// UpdateUserTeam moves a user to a team (nil removes them from any team).
func (p *PostgreSQLIdentityRepository) UpdateUserTeam(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET team_id = $1 WHERE id = $2`, teamID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user team")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update user team")
	}
	if affected == 0 {
		return identityDomain.ErrUserNotFound
	}
	return nil
}

// UpdateUserRole changes a user's role.
func (p *PostgreSQLIdentityRepository) UpdateUserRole(
	ctx context.Context,
	userID uuid.UUID,
	role identityDomain.Role,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update user role")
	}
	if affected == 0 {
		return identityDomain.ErrUserNotFound
	}
	return nil
}

// CreateTeam inserts a team.
func (p *PostgreSQLIdentityRepository) CreateTeam(ctx context.Context, team *identityDomain.Team) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO teams (id, organization_id, name, created_at) VALUES ($1, $2, $3, $4)`
	_, err := querier.ExecContext(ctx, query, team.ID, team.OrganizationID, team.Name, team.CreatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "team already exists")
		}
		return apperrors.Wrap(err, "failed to create team")
	}
	return nil
}

// GetTeam retrieves a team by ID scoped to an organization.
func (p *PostgreSQLIdentityRepository) GetTeam(
	ctx context.Context,
	organizationID, teamID uuid.UUID,
) (*identityDomain.Team, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, organization_id, name, created_at
			  FROM teams WHERE id = $1 AND organization_id = $2`

	var team identityDomain.Team
	err := querier.QueryRowContext(ctx, query, teamID, organizationID).Scan(
		&team.ID,
		&team.OrganizationID,
		&team.Name,
		&team.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, identityDomain.ErrTeamNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get team")
	}
	return &team, nil
}

// isPGUniqueViolation reports whether err is a PostgreSQL unique violation.
func isPGUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return apperrors.As(err, &pqErr) && pqErr.Code == "23505"
}
