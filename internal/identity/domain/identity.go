package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary; every other entity belongs to exactly
// one. Immutable after creation except for the name.
type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// User is an account within one organization. Role and team membership are
// both mutable and both feed the access resolver on every call.
type User struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Name           string
	Role           Role
	// TeamID is the user's current team, nil when unassigned. A user belongs
	// to at most one team at a time; there is no membership history.
	TeamID    *uuid.UUID
	CreatedAt time.Time
}

// Team groups users within one organization for team-wide credential shares.
type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	CreatedAt      time.Time
}

// Requester is the authenticated identity attached to a request by the
// upstream identity collaborator. Admin requesters are expected to have
// already passed the MFA gate; this engine only consumes that fact.
type Requester struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
	TeamID         *uuid.UUID
}

// IsAdmin reports whether the requester carries the admin role.
func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}
