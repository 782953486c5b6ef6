package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialShare is a direct grant to a single user. Rows are unique on
// (credential_id, user_id); revocation sets RevokedAt and keeps the row for
// history.
type CredentialShare struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	UserID       uuid.UUID
	Permission   Permission
	SharedAt     time.Time
	RevokedAt    *time.Time
}

// Active reports whether the grant currently participates in resolution.
func (s CredentialShare) Active() bool {
	return s.RevokedAt == nil
}

// CredentialTeamShare is a grant to every current member of a team. Team
// membership is evaluated at resolution time, never snapshotted, so moving a
// user out of the team removes this access on their next call.
type CredentialTeamShare struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	TeamID       uuid.UUID
	Permission   Permission
	SharedAt     time.Time
	RevokedAt    *time.Time
}

// Active reports whether the grant currently participates in resolution.
func (s CredentialTeamShare) Active() bool {
	return s.RevokedAt == nil
}

// ShareTarget identifies the subject of a share or revoke operation: exactly
// one of UserID or TeamID must be set.
type ShareTarget struct {
	UserID *uuid.UUID
	TeamID *uuid.UUID
}

// Valid reports whether exactly one subject is set.
func (t ShareTarget) Valid() bool {
	return (t.UserID != nil) != (t.TeamID != nil)
}
