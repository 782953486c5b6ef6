// Package http provides the requester middleware and context helpers.
package http

import (
	"context"

	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
)

// requesterKey is a context key type for storing the resolved requester.
type requesterKey struct{}

// WithRequester stores the resolved requester in the context.
// This is typically called by RequesterMiddleware after a successful lookup.
func WithRequester(ctx context.Context, requester identityDomain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, requester)
}

// GetRequester retrieves the resolved requester from the context.
// Returns (requester, true) if one is present, or (zero, false) otherwise.
func GetRequester(ctx context.Context) (identityDomain.Requester, bool) {
	requester, ok := ctx.Value(requesterKey{}).(identityDomain.Requester)
	return requester, ok
}
