package infrastructure

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records a snapshot of the Go runtime at the end of a run.
type RuntimeMetrics struct {
	start time.Time

	goroutines metric.Int64Gauge
	heapAlloc  metric.Int64Gauge
	totalAlloc metric.Int64Gauge
	sys        metric.Int64Gauge
	gcCount    metric.Int64Gauge
	uptime     metric.Float64Gauge
}

// RuntimeStats is one runtime snapshot.
type RuntimeStats struct {
	Goroutines int64
	HeapAlloc  int64
	TotalAlloc int64
	Sys        int64
	GCCount    uint32
	Uptime     time.Duration
}

// NewRuntimeMetrics creates the runtime gauges. Uptime is measured from start.
func NewRuntimeMetrics(meter metric.Meter, start time.Time) (*RuntimeMetrics, error) {
	m := &RuntimeMetrics{start: start}
	var err error

	if m.goroutines, err = meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of goroutines when the run finished"),
	); err != nil {
		return nil, err
	}
	if m.heapAlloc, err = meter.Int64Gauge(
		"runtime_heap_alloc_bytes",
		metric.WithDescription("Live heap in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.totalAlloc, err = meter.Int64Gauge(
		"runtime_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.sys, err = meter.Int64Gauge(
		"runtime_sys_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.gcCount, err = meter.Int64Gauge(
		"runtime_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	); err != nil {
		return nil, err
	}
	if m.uptime, err = meter.Float64Gauge(
		"runtime_uptime_seconds",
		metric.WithDescription("Time since the pipeline was created"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Collect reads the runtime statistics and records them.
func (m *RuntimeMetrics) Collect(ctx context.Context) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := RuntimeStats{
		Goroutines: int64(runtime.NumGoroutine()),
		HeapAlloc:  int64(mem.HeapAlloc),
		TotalAlloc: int64(mem.TotalAlloc),
		Sys:        int64(mem.Sys),
		GCCount:    mem.NumGC,
		Uptime:     time.Since(m.start),
	}

	m.goroutines.Record(ctx, stats.Goroutines)
	m.heapAlloc.Record(ctx, stats.HeapAlloc)
	m.totalAlloc.Record(ctx, stats.TotalAlloc)
	m.sys.Record(ctx, stats.Sys)
	m.gcCount.Record(ctx, int64(stats.GCCount))
	m.uptime.Record(ctx, stats.Uptime.Seconds())

	return stats
}

// LogValue implements slog.LogValuer.
func (s RuntimeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("goroutines", s.Goroutines),
		slog.Int64("heap_alloc_mb", s.HeapAlloc/1024/1024),
		slog.Int64("total_alloc_mb", s.TotalAlloc/1024/1024),
		slog.Int64("sys_mb", s.Sys/1024/1024),
		slog.Any("gc_cycles", s.GCCount),
		slog.Duration("uptime", s.Uptime),
	)
}
