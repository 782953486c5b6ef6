package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTime() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestOperation_Valid(t *testing.T) {
	for _, op := range []Operation{OperationRead, OperationWrite, OperationShare, OperationDelete} {
		assert.True(t, op.Valid())
	}
	assert.False(t, Operation("EXECUTE").Valid())
	assert.False(t, Operation("").Valid())
}

func TestCapabilitySet_Has(t *testing.T) {
	assert.True(t, fullCapabilities().Has(OperationDelete))
	assert.True(t, editCapabilities().Has(OperationWrite))
	assert.False(t, editCapabilities().Has(OperationShare))
	assert.True(t, viewCapabilities().Has(OperationRead))
	assert.False(t, viewCapabilities().Has(OperationWrite))
	assert.False(t, CapabilitySet{}.Has(OperationRead))
}
