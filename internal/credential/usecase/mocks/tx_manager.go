package mocks

import (
	"context"
)

// FakeTxManager runs the transactional function directly, without a
// database. BeginErr forces the transaction to fail before fn runs.
type FakeTxManager struct {
	Calls    int
	BeginErr error
}

// WithTx executes fn with the unmodified context.
func (f *FakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.Calls++
	if f.BeginErr != nil {
		return f.BeginErr
	}
	return fn(ctx)
}
