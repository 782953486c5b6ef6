// Package access implements the access-control core: the grant index that
// aggregates the four grant sources for a credential and the pure resolver
// that merges them into an effective permission decision.
package access

// Operation is an action a requester wants to perform on a credential.
type Operation string

const (
	// OperationRead decrypts and returns the credential's secret fields.
	OperationRead Operation = "READ"

	// OperationWrite updates credential fields.
	OperationWrite Operation = "WRITE"

	// OperationShare creates, updates, or revokes grants.
	OperationShare Operation = "SHARE"

	// OperationDelete removes the credential and cascades its grants.
	OperationDelete Operation = "DELETE"
)

// Valid reports whether the operation is one of the known values.
func (o Operation) Valid() bool {
	switch o {
	case OperationRead, OperationWrite, OperationShare, OperationDelete:
		return true
	}
	return false
}

// CapabilitySet is the set of operations a decision allows.
type CapabilitySet map[Operation]bool

// Has reports whether the set covers the operation.
func (c CapabilitySet) Has(op Operation) bool {
	return c[op]
}

// fullCapabilities grants every operation (owner and same-org admin).
func fullCapabilities() CapabilitySet {
	return CapabilitySet{
		OperationRead:   true,
		OperationWrite:  true,
		OperationShare:  true,
		OperationDelete: true,
	}
}

// editCapabilities grants read and write. Share and delete remain
// owner/admin-only no matter how strong the grant is.
func editCapabilities() CapabilitySet {
	return CapabilitySet{
		OperationRead:  true,
		OperationWrite: true,
	}
}

// viewCapabilities grants read only.
func viewCapabilities() CapabilitySet {
	return CapabilitySet{
		OperationRead: true,
	}
}
