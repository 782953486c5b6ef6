// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	credentialUseCase "github.com/keyfold/keyfold/internal/credential/usecase"
	customValidation "github.com/keyfold/keyfold/internal/validation"
)

// CreateCredentialRequest contains the parameters for creating a credential.
type CreateCredentialRequest struct {
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	APIKey   *string  `json:"api_key"`
	Notes    *string  `json:"notes"`
	Tags     []string `json:"tags"`
}

// Validate checks if the create credential request is valid.
func (r *CreateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Tags, validation.Each(customValidation.NotBlank)),
	)
}

// ToInput converts the request to the use case input.
func (r *CreateCredentialRequest) ToInput() credentialUseCase.CreateCredentialInput {
	return credentialUseCase.CreateCredentialInput{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
		APIKey:   r.APIKey,
		Notes:    r.Notes,
		Tags:     r.Tags,
	}
}

// UpdateCredentialRequest contains the parameters for a partial update.
// Absent fields keep their stored values; clear_api_key/clear_notes drop the
// optional fields entirely.
type UpdateCredentialRequest struct {
	Name        *string  `json:"name"`
	Username    *string  `json:"username"`
	Password    *string  `json:"password"`
	APIKey      *string  `json:"api_key"`
	Notes       *string  `json:"notes"`
	Tags        []string `json:"tags"`
	ClearAPIKey bool     `json:"clear_api_key"`
	ClearNotes  bool     `json:"clear_notes"`
}

// Validate checks if the update credential request is valid.
func (r *UpdateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Username, validation.NilOrNotEmpty),
		validation.Field(&r.Password, validation.NilOrNotEmpty),
		validation.Field(&r.Tags, validation.Each(customValidation.NotBlank)),
	)
}

// ToFieldUpdates converts the request to the domain update description.
func (r *UpdateCredentialRequest) ToFieldUpdates() credentialDomain.FieldUpdates {
	return credentialDomain.FieldUpdates{
		Name:        r.Name,
		Username:    r.Username,
		Password:    r.Password,
		APIKey:      r.APIKey,
		Notes:       r.Notes,
		Tags:        r.Tags,
		ClearAPIKey: r.ClearAPIKey,
		ClearNotes:  r.ClearNotes,
	}
}

// ShareCredentialRequest contains the parameters for sharing a credential
// with a user or a team. Exactly one of user_id and team_id must be set.
type ShareCredentialRequest struct {
	UserID     string `json:"user_id"`
	TeamID     string `json:"team_id"`
	Permission string `json:"permission"`
}

// Validate checks if the share credential request is valid.
func (r *ShareCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.When(r.UserID != "", customValidation.UUID)),
		validation.Field(&r.TeamID, validation.When(r.TeamID != "", customValidation.UUID)),
		validation.Field(&r.Permission, validation.Required, customValidation.Permission),
	)
}

// ToTarget converts the request to a share target. The target's own Valid()
// check still runs in the use case, so neither-or-both errors surface there.
func (r *ShareCredentialRequest) ToTarget() credentialDomain.ShareTarget {
	return toShareTarget(r.UserID, r.TeamID)
}

// RevokeShareRequest contains the parameters for revoking a share.
// Exactly one of user_id and team_id must be set.
type RevokeShareRequest struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id"`
}

// Validate checks if the revoke share request is valid.
func (r *RevokeShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.When(r.UserID != "", customValidation.UUID)),
		validation.Field(&r.TeamID, validation.When(r.TeamID != "", customValidation.UUID)),
	)
}

// ToTarget converts the request to a share target.
func (r *RevokeShareRequest) ToTarget() credentialDomain.ShareTarget {
	return toShareTarget(r.UserID, r.TeamID)
}

// toShareTarget builds a ShareTarget from already-validated UUID strings.
func toShareTarget(userID, teamID string) credentialDomain.ShareTarget {
	var target credentialDomain.ShareTarget

	if userID != "" {
		id := uuid.MustParse(userID)
		target.UserID = &id
	}
	if teamID != "" {
		id := uuid.MustParse(teamID)
		target.TeamID = &id
	}

	return target
}
