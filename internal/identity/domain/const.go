// Package domain defines the identity domain models: organizations as tenant
// boundaries, users with their roles, and teams with current-membership
// semantics.
package domain

// Role classifies a user within their organization.
type Role string

const (
	// RoleUser is the default role with no standing access beyond ownership
	// and explicit grants.
	RoleUser Role = "USER"

	// RoleAccountant can use the invoice-facing parts of the surrounding
	// application; within this engine it behaves like RoleUser.
	RoleAccountant Role = "ACCOUNTANT"

	// RoleAdmin has full access to every credential in the same
	// organization. The role never crosses tenant boundaries.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAccountant, RoleAdmin:
		return true
	}
	return false
}
