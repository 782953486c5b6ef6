// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
)

// CredentialResponse represents a credential in API responses.
// SECURITY: The secret fields are only populated for GET responses; create,
// update and list responses carry metadata only. Must be transmitted over
// HTTPS in production.
type CredentialResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Username       string    `json:"username,omitempty"`
	Password       string    `json:"password,omitempty"`
	APIKey         *string   `json:"api_key,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MapPlaintextToMetadataResponse converts a decrypted credential to a
// metadata-only response for POST and PATCH operations. The secret fields
// are excluded; callers that need them do an explicit GET.
func MapPlaintextToMetadataResponse(credential *credentialDomain.PlaintextCredential) CredentialResponse {
	return CredentialResponse{
		ID:             credential.ID.String(),
		OrganizationID: credential.OrganizationID.String(),
		OwnerID:        credential.OwnerID.String(),
		Name:           credential.Name,
		Tags:           tagsOrEmpty(credential.Tags),
		CreatedAt:      credential.CreatedAt,
		UpdatedAt:      credential.UpdatedAt,
	}
}

// MapPlaintextToGetResponse converts a decrypted credential to a full
// response for GET operations, secret fields included.
func MapPlaintextToGetResponse(credential *credentialDomain.PlaintextCredential) CredentialResponse {
	return CredentialResponse{
		ID:             credential.ID.String(),
		OrganizationID: credential.OrganizationID.String(),
		OwnerID:        credential.OwnerID.String(),
		Name:           credential.Name,
		Username:       credential.Username,
		Password:       credential.Password,
		APIKey:         credential.APIKey,
		Notes:          credential.Notes,
		Tags:           tagsOrEmpty(credential.Tags),
		CreatedAt:      credential.CreatedAt,
		UpdatedAt:      credential.UpdatedAt,
	}
}

// ListCredentialsResponse represents a paginated list of credentials in API
// responses. Entries are metadata only; encrypted fields never leave the
// database for a list call.
type ListCredentialsResponse struct {
	Data []CredentialResponse `json:"data"`
}

// MapCredentialsToListResponse converts stored credentials to a list response.
func MapCredentialsToListResponse(credentials []*credentialDomain.Credential) ListCredentialsResponse {
	data := make([]CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		data = append(data, CredentialResponse{
			ID:             credential.ID.String(),
			OrganizationID: credential.OrganizationID.String(),
			OwnerID:        credential.OwnerID.String(),
			Name:           credential.Name,
			Tags:           tagsOrEmpty(credential.Tags),
			CreatedAt:      credential.CreatedAt,
			UpdatedAt:      credential.UpdatedAt,
		})
	}

	return ListCredentialsResponse{
		Data: data,
	}
}

// tagsOrEmpty normalizes nil tags so responses always carry a JSON array.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
