package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fyrsmithlabs/iocx/internal/telemetry"
)

func TestHTTPMetrics_MetricsMiddleware(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	m := NewHTTPMetrics(tt.Meter(httpInstrumentationName), nil)

	server, _ := setupTestServer(t, &Config{Host: "localhost", Port: 8080, HTTPMetrics: m})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.echo.ServeHTTP(httptest.NewRecorder(), req)
	postJSON(t, server, "/api/v1/extract", ExtractRequest{Content: "8.8.8.8"})
	postJSON(t, server, "/api/v1/extract", ExtractRequest{})

	requests, ok := tt.MetricByName(t, "iocx.http.requests_total")
	require.True(t, ok, "requests counter not found")
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	statuses := map[int64]int64{}
	for _, dp := range sum.DataPoints {
		total += dp.Value
		if v, ok := dp.Attributes.Value("status"); ok {
			statuses[v.AsInt64()] += dp.Value
		}
	}
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), statuses[http.StatusOK])
	assert.Equal(t, int64(1), statuses[http.StatusBadRequest])

	duration, ok := tt.MetricByName(t, "iocx.http.request_duration_seconds")
	require.True(t, ok, "duration histogram not found")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	_, ok = tt.MetricByName(t, "iocx.http.request_size_bytes")
	assert.True(t, ok, "request size histogram not found")
}

func TestNewHTTPMetrics_GlobalFallback(t *testing.T) {
	m := NewHTTPMetrics(nil, nil)
	assert.NotNil(t, m.meter)
	assert.NotNil(t, m.MetricsMiddleware())
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "/"},
		{"/health", "/health"},
		{"/api/v1/extract", "/api/v1/extract"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePath(tt.input))
	}
}
