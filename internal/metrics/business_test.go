package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/securestore/internal/errors"
)

// assertMetricLine checks the Prometheus output for a sample with the given name, label
// pattern and value. The exporter injects extra scope labels, hence the regexp.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestOperationStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Nil", nil, StatusSuccess},
		{"NotFound", apperrors.Wrap(apperrors.ErrNotFound, "record not found"), StatusNotFound},
		{"InvalidInput", apperrors.Wrap(apperrors.ErrInvalidInput, "key required"), StatusInvalidInput},
		{"Unavailable", apperrors.Wrap(apperrors.ErrUnavailable, "bucket down"), StatusUnavailable},
		{"Integrity", apperrors.Wrap(apperrors.ErrIntegrity, "authentication failed"), StatusIntegrityError},
		{"Unclassified", errors.New("boom"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OperationStatus(tt.err))
		})
	}
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	noOp.RecordOperation(context.Background(), "storage", "storage_set", StatusSuccess)
	noOp.RecordDuration(context.Background(), "storage", "storage_set", time.Millisecond, StatusSuccess)
	Observe(context.Background(), noOp, "crypto", "key_ensure", time.Now(), nil)
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("export_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "export_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "storage", "storage_set", StatusSuccess)
	bm.RecordOperation(ctx, "storage", "storage_set", StatusSuccess)
	bm.RecordDuration(ctx, "storage", "storage_set", 5*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "storage", "storage_set", 7*time.Millisecond, StatusSuccess)

	start := time.Now()
	Observe(ctx, bm, "storage", "storage_get", start, apperrors.Wrap(apperrors.ErrIntegrity, "tampered"))
	Observe(ctx, bm, "crypto", "key_ensure", start, nil)

	output := scrape(t, provider)

	assertMetricLine(t, output, `export_test_operations_total`,
		`domain="storage".*operation="storage_set".*status="success"`, `2`)
	assertMetricLine(t, output, `export_test_operations_total`,
		`domain="storage".*operation="storage_get".*status="integrity_error"`, `1`)
	assertMetricLine(t, output, `export_test_operations_total`,
		`domain="crypto".*operation="key_ensure".*status="success"`, `1`)
	assertMetricLine(t, output, `export_test_operation_duration_seconds_count`,
		`domain="storage".*operation="storage_set".*status="success"`, `2`)
}
