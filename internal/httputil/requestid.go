// Package httputil provides shared HTTP plumbing: JSON response helpers,
// error-to-status mapping, pagination parsing, and request ID propagation.
package httputil

import (
	"context"

	"github.com/google/uuid"
)

// requestIDKey is a context key type for the per-request correlation ID.
type requestIDKey struct{}

// WithRequestID stores the request correlation ID in the context so the
// layers below HTTP can stamp it onto audit events and log lines.
func WithRequestID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request correlation ID, or uuid.Nil when
// the call did not come through the HTTP layer (CLI commands, tests).
func RequestIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(requestIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
