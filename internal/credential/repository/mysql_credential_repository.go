package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/database"
	apperrors "github.com/keyfold/keyfold/internal/errors"
)

// MySQLCredentialRepository implements credential persistence for MySQL.
// Tags are stored as a JSON array since MySQL has no native array type.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Create inserts a new credential.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	tags, err := marshalTags(credential.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO credentials (id, organization_id, owner_id, name, encrypted_username,
			  encrypted_password, encrypted_api_key, encrypted_notes, tags, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.ID.String(),
		credential.OrganizationID.String(),
		credential.OwnerID.String(),
		credential.Name,
		credential.EncryptedUsername,
		credential.EncryptedPassword,
		credential.EncryptedAPIKey,
		credential.EncryptedNotes,
		tags,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a credential by ID scoped to an organization.
func (m *MySQLCredentialRepository) Get(
	ctx context.Context,
	organizationID, credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  WHERE id = ? AND organization_id = ?`

	var credential credentialDomain.Credential
	var tags []byte
	err := querier.QueryRowContext(ctx, query, credentialID.String(), organizationID.String()).Scan(
		&credential.ID,
		&credential.OrganizationID,
		&credential.OwnerID,
		&credential.Name,
		&credential.EncryptedUsername,
		&credential.EncryptedPassword,
		&credential.EncryptedAPIKey,
		&credential.EncryptedNotes,
		&tags,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	if credential.Tags, err = unmarshalTags(tags); err != nil {
		return nil, err
	}
	return &credential, nil
}

// Update persists changed fields of a credential.
func (m *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	tags, err := marshalTags(credential.Tags)
	if err != nil {
		return err
	}

	query := `UPDATE credentials
			  SET name = ?, encrypted_username = ?, encrypted_password = ?,
			      encrypted_api_key = ?, encrypted_notes = ?, tags = ?, updated_at = ?
			  WHERE id = ? AND organization_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.Name,
		credential.EncryptedUsername,
		credential.EncryptedPassword,
		credential.EncryptedAPIKey,
		credential.EncryptedNotes,
		tags,
		credential.UpdatedAt,
		credential.ID.String(),
		credential.OrganizationID.String(),
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
func (m *MySQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, credentialID.String())
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
func (m *MySQLCredentialRepository) ListByOrganization(
	ctx context.Context,
	organizationID uuid.UUID,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  WHERE organization_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, organizationID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return scanMySQLCredentials(rows)
}

// ListAll retrieves a page of credentials across all organizations, ordered
// by ID for stable batch iteration.
func (m *MySQLCredentialRepository) ListAll(
	ctx context.Context,
	limit, offset int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, organization_id, owner_id, name, encrypted_username, encrypted_password,
			  encrypted_api_key, encrypted_notes, tags, created_at, updated_at
			  FROM credentials
			  ORDER BY id
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return scanMySQLCredentials(rows)
}

func scanMySQLCredentials(rows *sql.Rows) ([]*credentialDomain.Credential, error) {
	var credentials []*credentialDomain.Credential
	for rows.Next() {
		var credential credentialDomain.Credential
		var tags []byte
		err := rows.Scan(
			&credential.ID,
			&credential.OrganizationID,
			&credential.OwnerID,
			&credential.Name,
			&credential.EncryptedUsername,
			&credential.EncryptedPassword,
			&credential.EncryptedAPIKey,
			&credential.EncryptedNotes,
			&tags,
			&credential.CreatedAt,
			&credential.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		if credential.Tags, err = unmarshalTags(tags); err != nil {
			return nil, err
		}
		credentials = append(credentials, &credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tags")
	}
	return data, nil
}

func unmarshalTags(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tags")
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
