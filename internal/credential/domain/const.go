// Package domain defines the credential domain models: encrypted-at-rest
// credentials and the grant records that feed the access resolver.
package domain

// Permission is the level granted by a direct or team share.
type Permission string

const (
	// PermissionViewOnly allows reading the decrypted credential.
	PermissionViewOnly Permission = "VIEW_ONLY"

	// PermissionEdit allows reading and updating the credential. Sharing and
	// deletion always stay with the owner and organization admins.
	PermissionEdit Permission = "EDIT"

	// PermissionNoAccess is an explicit denial. It beats any other grant for
	// the same subject, including a team grant that would otherwise allow.
	PermissionNoAccess Permission = "NO_ACCESS"
)

// Valid reports whether the permission is one of the known values.
func (p Permission) Valid() bool {
	switch p {
	case PermissionViewOnly, PermissionEdit, PermissionNoAccess:
		return true
	}
	return false
}

// rank orders allowing permissions for best-of-grants resolution.
// NO_ACCESS never participates in ranking; it is handled before ranking runs.
func (p Permission) rank() int {
	switch p {
	case PermissionEdit:
		return 2
	case PermissionViewOnly:
		return 1
	}
	return 0
}

// Stronger reports whether p grants strictly more than other.
func (p Permission) Stronger(other Permission) bool {
	return p.rank() > other.rank()
}
