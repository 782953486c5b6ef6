// Package repository implements credential and grant persistence for
// PostgreSQL and MySQL. Credential lookups are always organization-scoped so
// a row from another tenant is indistinguishable from a missing one.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Create inserts a new credential.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials (id, organization_id, owner_id, name, encrypted_username,
			  encrypted_password, encrypted_api_key, encrypted_notes, tags, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.OrganizationID,
		credential.OwnerID,
		credential.Name,
		credential.EncryptedUsername,
		credential.EncryptedPassword,
		credential.EncryptedAPIKey,
		credential.EncryptedNotes,
		pq.Array(credential.Tags),
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a credential by ID scoped to an organization.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	organizationID, credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  WHERE id = $1 AND organization_id = $2`

	var credential credentialDomain.Credential
	err := querier.QueryRowContext(ctx, query, credentialID, organizationID).Scan(
		&credential.ID,
		&credential.OrganizationID,
		&credential.OwnerID,
		&credential.Name,
		&credential.EncryptedUsername,
		&credential.EncryptedPassword,
		&credential.EncryptedAPIKey,
		&credential.EncryptedNotes,
		pq.Array(&credential.Tags),
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	return &credential, nil
}

// Update persists changed fields of a credential.
func (p *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials
			  SET name = $1, encrypted_username = $2, encrypted_password = $3,
			      encrypted_api_key = $4, encrypted_notes = $5, tags = $6, updated_at = $7
			  WHERE id = $8 AND organization_id = $9`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.Name,
		credential.EncryptedUsername,
		credential.EncryptedPassword,
		credential.EncryptedAPIKey,
		credential.EncryptedNotes,
		pq.Array(credential.Tags),
		credential.UpdatedAt,
		credential.ID,
		credential.OrganizationID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}
	if affected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}
	return nil
}

// Delete removes a credential row. Share rows are removed separately inside
// the same transaction before this is called.
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, credentialID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}
	if affected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}
	return nil
}

// ListByOrganization retrieves credentials for an organization ordered by
// creation, newest first.
func (p *PostgreSQLCredentialRepository) ListByOrganization(
	ctx context.Context,
	organizationID uuid.UUID,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  WHERE organization_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return scanCredentials(rows)
}

// ListAll retrieves a page of credentials across all organizations, ordered
// by ID for stable batch iteration.
func (p *PostgreSQLCredentialRepository) ListAll(
	ctx context.Context,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  ORDER BY id
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return scanCredentials(rows)
}

// scanCredentials collects credential rows from a result set.
func scanCredentials(rows *sql.Rows) ([]*credentialDomain.Credential, error) {
	var credentials []*credentialDomain.Credential
	for rows.Next() {
		var credential credentialDomain.Credential
		err := rows.Scan(
			&credential.ID,
			&credential.OrganizationID,
			&credential.OwnerID,
			&credential.Name,
			&credential.EncryptedUsername,
			&credential.EncryptedPassword,
			&credential.EncryptedAPIKey,
			&credential.EncryptedNotes,
			pq.Array(&credential.Tags),
			&credential.CreatedAt,
			&credential.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		credentials = append(credentials, &credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}
