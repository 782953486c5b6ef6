package domain

import (
	"github.com/keyfold/keyfold/internal/errors"
)

// Audit-specific error definitions.
var (
	// ErrSignatureInvalid indicates a stored audit event does not match its
	// HMAC signature: the row was altered after it was written.
	ErrSignatureInvalid = errors.New("audit event signature invalid")
)
