package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// MySQLIdentityRepository implements identity persistence for MySQL.
type MySQLIdentityRepository struct {
	db *sql.DB
}

// NewMySQLIdentityRepository creates a new MySQL identity repository.
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{db: db}
}

// CreateOrganization inserts an organization.
func (m *MySQLIdentityRepository) CreateOrganization(
	ctx context.Context,
	org *identityDomain.Organization,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`
	if _, err := querier.ExecContext(ctx, query, org.ID.String(), org.Name, org.CreatedAt); err != nil {
		if isMySQLDuplicateEntry(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "organization already exists")
		}
		return apperrors.Wrap(err, "failed to create organization")
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
func (m *MySQLIdentityRepository) GetOrganization(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Organization, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, created_at FROM organizations WHERE id = ?`

	var org identityDomain.Organization
	err := querier.QueryRowContext(ctx, query, id.String()).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, identityDomain.ErrOrganizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get organization")
	}
	return &org, nil
}

// CreateUser inserts a user.
func (m *MySQLIdentityRepository) CreateUser(ctx context.Context, user *identityDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, organization_id, email, name, role, team_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	var teamID any
	if user.TeamID != nil {
		teamID = user.TeamID.String()
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID.String(),
		user.OrganizationID.String(),
		user.Email,
		user.Name,
		user.Role,
		teamID,
		user.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "user already exists")
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetUser retrieves a user by ID, including their current team.
func (m *MySQLIdentityRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, organization_id, email, name, role, team_id, created_at
			  FROM users WHERE id = ?`

	var user identityDomain.User
	err := querier.QueryRowContext(ctx, query, id.String()).Scan(
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
func (m *MySQLIdentityRepository) UpdateUserTeam(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	var team any
	if teamID != nil {
		team = teamID.String()
	}

	result, err := querier.ExecContext(ctx, `UPDATE users SET team_id = ? WHERE id = ?`, team, userID.String())
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
func (m *MySQLIdentityRepository) UpdateUserRole(
	ctx context.Context,
	userID uuid.UUID,
	role identityDomain.Role,
) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, userID.String())
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
func (m *MySQLIdentityRepository) CreateTeam(ctx context.Context, team *identityDomain.Team) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO teams (id, organization_id, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := querier.ExecContext(
		ctx,
		query,
		team.ID.String(),
		team.OrganizationID.String(),
		team.Name,
		team.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "team already exists")
		}
		return apperrors.Wrap(err, "failed to create team")
	}
	return nil
}

// GetTeam retrieves a team by ID scoped to an organization.
func (m *MySQLIdentityRepository) GetTeam(
	ctx context.Context,
	organizationID, teamID uuid.UUID,
) (*identityDomain.Team, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, organization_id, name, created_at
			  FROM teams WHERE id = ? AND organization_id = ?`

	var team identityDomain.Team
	err := querier.QueryRowContext(ctx, query, teamID.String(), organizationID.String()).Scan(
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

// isMySQLDuplicateEntry reports whether err is a MySQL duplicate entry error.
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return apperrors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
