package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// MySQLGrantRepository implements share persistence for MySQL.
type MySQLGrantRepository struct {
	db *sql.DB
}

// NewMySQLGrantRepository creates a new MySQL grant repository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}

// UpsertUserShare creates or replaces the single share row for
// (credential, user). Re-sharing overwrites the permission and reactivates a
// revoked row instead of inserting a duplicate.
func (m *MySQLGrantRepository) UpsertUserShare(
	ctx context.Context,
	share *credentialDomain.CredentialShare,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credential_shares (id, credential_id, user_id, permission, shared_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, NULL)
			  ON DUPLICATE KEY UPDATE
			  permission = VALUES(permission), shared_at = VALUES(shared_at), revoked_at = NULL`

	_, err := querier.ExecContext(
		ctx,
		query,
		share.ID.String(),
		share.CredentialID.String(),
		share.UserID.String(),
		share.Permission,
		share.SharedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert user share")
	}
	return nil
}

// UpsertTeamShare creates or replaces the single share row for
// (credential, team).
func (m *MySQLGrantRepository) UpsertTeamShare(
	ctx context.Context,
	share *credentialDomain.CredentialTeamShare,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credential_team_shares (id, credential_id, team_id, permission, shared_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, NULL)
			  ON DUPLICATE KEY UPDATE
			  permission = VALUES(permission), shared_at = VALUES(shared_at), revoked_at = NULL`

	_, err := querier.ExecContext(
		ctx,
		query,
		share.ID.String(),
		share.CredentialID.String(),
		share.TeamID.String(),
		share.Permission,
		share.SharedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert team share")
	}
	return nil
}

// RevokeUserShare marks the active share for (credential, user) as revoked.
// Revoking an already revoked or missing share is a no-op.
func (m *MySQLGrantRepository) RevokeUserShare(
	ctx context.Context,
	credentialID, userID uuid.UUID,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credential_shares
			  SET revoked_at = ?
			  WHERE credential_id = ? AND user_id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(
		ctx, query, revokedAt, credentialID.String(), userID.String(),
	); err != nil {
		return apperrors.Wrap(err, "failed to revoke user share")
	}
	return nil
}

// RevokeTeamShare marks the active share for (credential, team) as revoked.
// Revoking an already revoked or missing share is a no-op.
func (m *MySQLGrantRepository) RevokeTeamShare(
	ctx context.Context,
	credentialID, teamID uuid.UUID,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credential_team_shares
			  SET revoked_at = ?
			  WHERE credential_id = ? AND team_id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(
		ctx, query, revokedAt, credentialID.String(), teamID.String(),
	); err != nil {
		return apperrors.Wrap(err, "failed to revoke team share")
	}
	return nil
}

// ListUserShares retrieves the active direct shares for a credential.
func (m *MySQLGrantRepository) ListUserShares(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*credentialDomain.CredentialShare, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_id, user_id, permission, shared_at, revoked_at
			  FROM credential_shares
			  WHERE credential_id = ? AND revoked_at IS NULL`

	rows, err := querier.QueryContext(ctx, query, credentialID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list user shares")
	}
	defer rows.Close()

	var shares []*credentialDomain.CredentialShare
	for rows.Next() {
		var share credentialDomain.CredentialShare
		err := rows.Scan(
			&share.ID,
			&share.CredentialID,
			&share.UserID,
			&share.Permission,
			&share.SharedAt,
			&share.RevokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user share")
		}
		shares = append(shares, &share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate user shares")
	}
	return shares, nil
}

// ListTeamShares retrieves the active team shares for a credential.
func (m *MySQLGrantRepository) ListTeamShares(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*credentialDomain.CredentialTeamShare, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_id, team_id, permission, shared_at, revoked_at
			  FROM credential_team_shares
			  WHERE credential_id = ? AND revoked_at IS NULL`

	rows, err := querier.QueryContext(ctx, query, credentialID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team shares")
	}
	defer rows.Close()

	var shares []*credentialDomain.CredentialTeamShare
	for rows.Next() {
		var share credentialDomain.CredentialTeamShare
		err := rows.Scan(
			&share.ID,
			&share.CredentialID,
			&share.TeamID,
			&share.Permission,
			&share.SharedAt,
			&share.RevokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team share")
		}
		shares = append(shares, &share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate team shares")
	}
	return shares, nil
}

// DeleteByCredential removes every share row, active or revoked, for a
// credential. Runs inside the credential delete transaction.
func (m *MySQLGrantRepository) DeleteByCredential(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(
		ctx, `DELETE FROM credential_shares WHERE credential_id = ?`, credentialID.String(),
	); err != nil {
		return apperrors.Wrap(err, "failed to delete user shares")
	}
	if _, err := querier.ExecContext(
		ctx, `DELETE FROM credential_team_shares WHERE credential_id = ?`, credentialID.String(),
	); err != nil {
		return apperrors.Wrap(err, "failed to delete team shares")
	}
	return nil
}
