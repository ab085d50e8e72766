package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "surfviz/internal/errors"
	"surfviz/internal/infrastructure"
)

const (
	TracerName = "surfviz.pipeline"
)

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RenderMetrics
	runtime *infrastructure.RuntimeMetrics
}

// NewPipelineTracer creates a tracer from the telemetry providers. Nil
// providers give a tracer that records nothing.
func NewPipelineTracer(providers *infrastructure.OTelProviders) (*PipelineTracer, error) {
	tracer := tracenoop.NewTracerProvider().Tracer(TracerName)
	meter := noop.NewMeterProvider().Meter(TracerName)
	if providers != nil {
		if providers.TracerProvider != nil {
			tracer = providers.TracerProvider.Tracer(TracerName)
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.CreateRenderMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create render metrics: %w", err)
	}

	runtime, err := infrastructure.NewRuntimeMetrics(meter, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	return &PipelineTracer{tracer: tracer, metrics: metrics, runtime: runtime}, nil
}

// TraceRun creates a span for a whole pipeline run
func (pt *PipelineTracer) TraceRun(ctx context.Context, runID string, jobs int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.jobs", jobs),
		),
	)
}

// TraceJob creates a span for one surface job
func (pt *PipelineTracer) TraceJob(ctx context.Context, job Job) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.job."+job.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.name", job.Name),
			attribute.String("job.input", job.Input),
			attribute.String("job.title", job.Spec.Title),
		),
	)
}

// TraceStep creates a span for a single step of a job
func (pt *PipelineTracer) TraceStep(ctx context.Context, job, step string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.step."+step,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.name", job),
			attribute.String("step.name", step),
		),
	)
}

// End records err on span, sets its status and ends it.
func (pt *PipelineTracer) End(ctx context.Context, span trace.Span, err error) {
	if err != nil {
		infrastructure.RecordError(ctx, err,
			trace.WithAttributes(attribute.String("error.type", string(apperrors.TypeOf(err)))))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordJobSuccess records metrics and span attributes for a rendered image
func (pt *PipelineTracer) RecordJobSuccess(ctx context.Context, span trace.Span, job string, duration time.Duration, bytes int) {
	span.SetAttributes(
		attribute.Float64("job.duration_seconds", duration.Seconds()),
		attribute.Int("job.image_bytes", bytes),
	)
	pt.metrics.RecordRender(ctx, job, duration, bytes)
}

// RecordJobFailure records failure metrics for a job
func (pt *PipelineTracer) RecordJobFailure(ctx context.Context, job string, duration time.Duration, err error) {
	errType := string(apperrors.TypeOf(err))
	if errType == "" {
		errType = "UNKNOWN"
	}
	pt.metrics.RecordFailure(ctx, job, errType, duration)
}

// RecordTableLoaded records metrics for a loaded input table
func (pt *PipelineTracer) RecordTableLoaded(ctx context.Context, job string, rows int) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("table.rows", rows))
	pt.metrics.RecordTableLoaded(ctx, job, rows)
}

// RecordRuntime records a runtime snapshot at the end of a run
func (pt *PipelineTracer) RecordRuntime(ctx context.Context) infrastructure.RuntimeStats {
	return pt.runtime.Collect(ctx)
}
