// Package errors provides the domain error vocabulary shared by every module.
// Use cases return these sentinels (usually wrapped with context) and the HTTP
// layer maps them to status codes; nothing below the handlers knows about HTTP.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist. Access
	// denials on credentials are deliberately reported with this same
	// sentinel so that callers cannot probe for resource existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data, such as a lost
	// concurrent update on a grant row. Conflicts are retryable by the caller.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks a valid requester identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the requester identity is known but not allowed.
	// This sentinel stays internal to the engine and its audit trail; the
	// credential gateway converts it to ErrNotFound before returning.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to an error while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
