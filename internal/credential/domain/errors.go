package domain

import (
	"github.com/keyfold/keyfold/internal/errors"
)

// Credential-specific error definitions.
var (
	// ErrCredentialNotFound is the single externally visible outcome for
	// both "does not exist" and "exists but access denied", so an
	// unauthorized caller cannot enumerate credentials across tenants.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrInvalidPermission indicates an unknown permission value.
	ErrInvalidPermission = errors.Wrap(errors.ErrInvalidInput, "invalid permission")

	// ErrInvalidShareTarget indicates a share target with neither or both of
	// user and team set.
	ErrInvalidShareTarget = errors.Wrap(errors.ErrInvalidInput, "share target must be exactly one of user or team")

	// ErrEmptyUpdate indicates a write request that changes nothing.
	ErrEmptyUpdate = errors.Wrap(errors.ErrInvalidInput, "no fields to update")
)
