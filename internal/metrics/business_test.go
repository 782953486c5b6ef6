package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to
// handle extra OTel scope labels injected by the Prometheus exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("keyfold")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "keyfold")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	// None of these should panic or record anything.
	noOpMetrics.RecordOperation(context.Background(), "credential", "read", "success")
	noOpMetrics.RecordDuration(context.Background(), "credential", "read", 100*time.Millisecond, "success")
	noOpMetrics.RecordDecision(context.Background(), "READ", "deny", "no_grant")
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("keyfold_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "keyfold_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "credential", "read", "success")
	bm.RecordOperation(ctx, "credential", "read", "success")
	bm.RecordOperation(ctx, "credential", "write", "error")
	bm.RecordOperation(ctx, "audit", "record", "success")

	bm.RecordDuration(ctx, "credential", "read", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "credential", "read", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "credential", "write", 100*time.Millisecond, "error")

	bm.RecordDecision(ctx, "READ", "allow", "owner")
	bm.RecordDecision(ctx, "READ", "deny", "explicit_denial")
	bm.RecordDecision(ctx, "DELETE", "deny", "insufficient_permission")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`keyfold_test_operations_total`,
		`domain="credential".*operation="read".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`keyfold_test_operations_total`,
		`domain="credential".*operation="write".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`keyfold_test_operation_duration_seconds_count`,
		`domain="credential".*operation="read".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`keyfold_test_access_decisions_total`,
		`operation="READ".*outcome="allow".*reason="owner"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`keyfold_test_access_decisions_total`,
		`operation="READ".*outcome="deny".*reason="explicit_denial"`,
		`1`,
	)
}
