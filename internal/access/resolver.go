package access

import (
	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// Reason explains a decision for the audit trail. Reasons are internal
// detail: a denied caller only ever sees the merged not-found outcome.
type Reason string

const (
	// ReasonOwner: the requester owns the credential.
	ReasonOwner Reason = "owner"

	// ReasonAdminOverride: same-organization admin role override.
	ReasonAdminOverride Reason = "admin_override"

	// ReasonCrossTenant: the requester belongs to a different organization.
	// Role is irrelevant across tenant boundaries.
	ReasonCrossTenant Reason = "cross_tenant"

	// ReasonExplicitDenial: an active NO_ACCESS grant applies to the
	// requester directly or via their current team.
	ReasonExplicitDenial Reason = "explicit_denial"

	// ReasonGrantEdit: best applicable grant is EDIT.
	ReasonGrantEdit Reason = "grant_edit"

	// ReasonGrantViewOnly: best applicable grant is VIEW_ONLY.
	ReasonGrantViewOnly Reason = "grant_view_only"

	// ReasonNoGrant: no applicable grant exists.
	ReasonNoGrant Reason = "no_grant"

	// ReasonInsufficient: a grant allows some operations but not the
	// requested one.
	ReasonInsufficient Reason = "insufficient_permission"

	// ReasonNotFound: no credential row is visible to the requester's
	// organization. Recorded by callers that merge missing and denied.
	ReasonNotFound Reason = "not_found"
)

// Decision is the outcome of resolving one (requester, credential,
// operation) triple.
type Decision struct {
	Allowed bool
	// Capabilities is the full set the requester holds on the credential,
	// independent of the requested operation.
	Capabilities CapabilitySet
	Reason       Reason
}

// Resolve computes the effective permission decision for a requester against
// a credential's grant index.
//
// The resolver is pure and stateless: it recomputes the decision from the
// current rows on every call rather than caching a materialized ACL, which
// is what makes revocation and team-membership changes take effect on the
// very next call.
//
// Precedence, first match wins:
//
//  1. Ownership grants full access. A stray NO_ACCESS grant against the
//     owner is not exploitable; it is never consulted.
//  2. Admin role grants full access within the same organization only.
//     Cross-tenant access is never granted by role alone. Policy decision:
//     the override is evaluated before explicit denial, so a NO_ACCESS grant
//     cannot lock out an admin.
//  3. An active NO_ACCESS grant for the requester or their current team
//     denies, even when another grant would allow.
//  4. Otherwise the strongest applicable grant wins: EDIT gives read+write,
//     VIEW_ONLY gives read. Share and delete are never grantable. An empty
//     grant set denies.
//
// An operation outside the granted capability set yields a plain deny, not
// an error; callers surface it identically to "not found".
func Resolve(
	requester identityDomain.Requester,
	index GrantIndex,
	op Operation,
) Decision {
	// Tenant isolation precedes everything, including ownership: a
	// credential from another organization does not exist as far as the
	// requester is concerned.
	if requester.OrganizationID != index.OrganizationID {
		return Decision{Allowed: false, Capabilities: CapabilitySet{}, Reason: ReasonCrossTenant}
	}

	if requester.UserID == index.OwnerID {
		return decide(fullCapabilities(), ReasonOwner, op)
	}

	if requester.IsAdmin() {
		return decide(fullCapabilities(), ReasonAdminOverride, op)
	}

	denied, best, hasGrant := collectGrants(requester, index)
	if denied {
		return Decision{Allowed: false, Capabilities: CapabilitySet{}, Reason: ReasonExplicitDenial}
	}
	if !hasGrant {
		return Decision{Allowed: false, Capabilities: CapabilitySet{}, Reason: ReasonNoGrant}
	}

	switch best {
	case credentialDomain.PermissionEdit:
		return decide(editCapabilities(), ReasonGrantEdit, op)
	default:
		return decide(viewCapabilities(), ReasonGrantViewOnly, op)
	}
}

// collectGrants scans the index for grants applicable to the requester:
// direct grants on their user ID plus team grants on their current team.
// Returns whether any applicable grant is NO_ACCESS, the strongest allowing
// permission, and whether any applicable grant exists at all.
func collectGrants(
	requester identityDomain.Requester,
	index GrantIndex,
) (denied bool, best credentialDomain.Permission, hasGrant bool) {
	consider := func(p credentialDomain.Permission) {
		if p == credentialDomain.PermissionNoAccess {
			denied = true
			return
		}
		if !hasGrant || p.Stronger(best) {
			best = p
		}
		hasGrant = true
	}

	for _, grant := range index.DirectGrants {
		if grant.UserID == requester.UserID {
			consider(grant.Permission)
		}
	}

	if requester.TeamID != nil {
		for _, grant := range index.TeamGrants {
			if grant.TeamID == *requester.TeamID {
				consider(grant.Permission)
			}
		}
	}

	return denied, best, hasGrant
}

// decide checks the requested operation against the capability set.
func decide(capabilities CapabilitySet, reason Reason, op Operation) Decision {
	if !capabilities.Has(op) {
		return Decision{Allowed: false, Capabilities: capabilities, Reason: ReasonInsufficient}
	}
	return Decision{Allowed: true, Capabilities: capabilities, Reason: reason}
}
