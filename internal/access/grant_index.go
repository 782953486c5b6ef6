package access

import (
	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
)

// DirectGrant is an active direct share projected for resolution.
type DirectGrant struct {
	UserID     uuid.UUID
	Permission credentialDomain.Permission
}

// TeamGrant is an active team share projected for resolution.
type TeamGrant struct {
	TeamID     uuid.UUID
	Permission credentialDomain.Permission
}

// GrantIndex is the queryable view of the grant sources for one credential:
// ownership, the admin role override, direct user shares, and team shares.
//
// An index only ever contains active grants (revoked_at IS NULL); revoked
// rows are filtered out when the index is built, so revocation takes effect
// on the very next resolution. Team grants are matched against the
// requester's current team at resolution time; there is no membership
// snapshot.
type GrantIndex struct {
	CredentialID   uuid.UUID
	OrganizationID uuid.UUID
	OwnerID        uuid.UUID
	DirectGrants   []DirectGrant
	TeamGrants     []TeamGrant
}

// BuildGrantIndex projects credential grants into an index, dropping revoked
// rows. The share slices may contain revoked entries; the credential row
// supplies ownership and the tenant boundary.
func BuildGrantIndex(
	credential *credentialDomain.Credential,
	directShares []*credentialDomain.CredentialShare,
	teamShares []*credentialDomain.CredentialTeamShare,
) GrantIndex {
	index := GrantIndex{
		CredentialID:   credential.ID,
		OrganizationID: credential.OrganizationID,
		OwnerID:        credential.OwnerID,
	}

	for _, share := range directShares {
		if !share.Active() {
			continue
		}
		index.DirectGrants = append(index.DirectGrants, DirectGrant{
			UserID:     share.UserID,
			Permission: share.Permission,
		})
	}

	for _, share := range teamShares {
		if !share.Active() {
			continue
		}
		index.TeamGrants = append(index.TeamGrants, TeamGrant{
			TeamID:     share.TeamID,
			Permission: share.Permission,
		})
	}

	return index
}
