package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRuntimeMetrics_Collect(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.MetricExporter = "prometheus"
	providers, err := InitializeOTel(cfg, NewLogger(&bytes.Buffer{}, *testLogger()))
	require.NoError(t, err)

	m, err := NewRuntimeMetrics(providers.Meter, time.Now().Add(-time.Second))
	require.NoError(t, err)

	stats := m.Collect(context.Background())
	assert.Positive(t, stats.Goroutines)
	assert.Positive(t, stats.HeapAlloc)
	assert.GreaterOrEqual(t, stats.Uptime, time.Second)

	path := filepath.Join(t.TempDir(), "runtime.prom")
	require.NoError(t, providers.WriteMetricsFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "runtime_heap_alloc_bytes")
	assert.Contains(t, string(data), "runtime_goroutines")

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestRuntimeMetrics_Noop(t *testing.T) {
	m, err := NewRuntimeMetrics(noop.NewMeterProvider().Meter("test"), time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := NewLogger(&buf, *testLogger())
	logger.Error("stats", "runtime", m.Collect(context.Background()))
	assert.Contains(t, buf.String(), `"gc_cycles"`)
}
