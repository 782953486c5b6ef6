// Package domain defines the audit event model. Every gateway call emits
// exactly one event, for denied attempts as much as for allowed ones, so the
// trail is complete enough to investigate access patterns after the fact.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the recorded result of an operation.
type Outcome string

const (
	// OutcomeAllow: the operation was permitted and executed.
	OutcomeAllow Outcome = "allow"

	// OutcomeDeny: the resolver denied the operation (or the credential does
	// not exist; the caller cannot tell the difference, but the trail can).
	OutcomeDeny Outcome = "deny"

	// OutcomeError: the operation was permitted but failed during execution.
	OutcomeError Outcome = "error"
)

// AuditEvent records one authorization decision or mutation.
//
// Reason carries the resolver's internal detail (owner, admin_override,
// explicit_denial, ...) that is withheld from the caller. Signature is an
// HMAC-SHA256 over the canonical encoding, keyed by a signing key derived
// from the master key, so tampering with stored events is detectable.
type AuditEvent struct {
	ID             uuid.UUID
	RequestID      uuid.UUID
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	Action         string
	ResourceType   string
	ResourceID     uuid.UUID
	Outcome        Outcome
	Reason         string
	Metadata       map[string]any
	Signature      []byte
	CreatedAt      time.Time
}

// ResourceTypeCredential is the only resource type this engine audits.
const ResourceTypeCredential = "credential"
