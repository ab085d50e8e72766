package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RenderMetrics holds the instruments recorded by the surface pipeline
type RenderMetrics struct {
	tablesLoaded   metric.Int64Counter
	tableRows      metric.Int64Counter
	renders        metric.Int64Counter
	renderErrors   metric.Int64Counter
	renderDuration metric.Float64Histogram
	imageBytes     metric.Int64Histogram
}

// CreateRenderMetrics creates the pipeline instruments on the given meter
func CreateRenderMetrics(meter metric.Meter) (*RenderMetrics, error) {
	tablesLoaded, err := meter.Int64Counter(
		"surface_tables_loaded_total",
		metric.WithDescription("Total number of input tables loaded"),
	)
	if err != nil {
		return nil, err
	}

	tableRows, err := meter.Int64Counter(
		"surface_table_rows_total",
		metric.WithDescription("Total number of table rows read"),
	)
	if err != nil {
		return nil, err
	}

	renders, err := meter.Int64Counter(
		"surface_renders_total",
		metric.WithDescription("Total number of surfaces rendered and saved"),
	)
	if err != nil {
		return nil, err
	}

	renderErrors, err := meter.Int64Counter(
		"surface_render_errors_total",
		metric.WithDescription("Total number of failed surface jobs"),
	)
	if err != nil {
		return nil, err
	}

	renderDuration, err := meter.Float64Histogram(
		"surface_render_duration_seconds",
		metric.WithDescription("Duration of one load/pivot/render/save job in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	imageBytes, err := meter.Int64Histogram(
		"surface_image_bytes",
		metric.WithDescription("Size of the encoded surface images"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &RenderMetrics{
		tablesLoaded:   tablesLoaded,
		tableRows:      tableRows,
		renders:        renders,
		renderErrors:   renderErrors,
		renderDuration: renderDuration,
		imageBytes:     imageBytes,
	}, nil
}

// RecordTableLoaded records a successfully loaded input table
func (m *RenderMetrics) RecordTableLoaded(ctx context.Context, job string, rows int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("job", job))
	m.tablesLoaded.Add(ctx, 1, attrs)
	m.tableRows.Add(ctx, int64(rows), attrs)
}

// RecordRender records a saved image
func (m *RenderMetrics) RecordRender(ctx context.Context, job string, duration time.Duration, bytes int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("job", job))
	m.renders.Add(ctx, 1, attrs)
	m.renderDuration.Record(ctx, duration.Seconds(), attrs)
	m.imageBytes.Record(ctx, int64(bytes), attrs)
}

// RecordFailure records a failed job, labelled with the error type
func (m *RenderMetrics) RecordFailure(ctx context.Context, job, errType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("job", job),
		attribute.String("error_type", errType),
	))
	m.renderDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("job", job)))
}
