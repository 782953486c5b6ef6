package domain

import (
	"github.com/keyfold/keyfold/internal/errors"
)

// Identity-specific error definitions.
var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrTeamNotFound indicates the team does not exist in the organization.
	ErrTeamNotFound = errors.Wrap(errors.ErrNotFound, "team not found")

	// ErrOrganizationNotFound indicates the organization does not exist.
	ErrOrganizationNotFound = errors.Wrap(errors.ErrNotFound, "organization not found")

	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")

	// ErrMFARequired indicates an admin request arrived without the upstream
	// MFA gate marker.
	ErrMFARequired = errors.Wrap(errors.ErrUnauthorized, "mfa verification required")
)
