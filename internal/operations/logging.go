package operations

import (
	"context"
	"log/slog"
	"time"

	apperrors "surfviz/internal/errors"
	"surfviz/internal/infrastructure"
)

// logRunStart logs the start of a pipeline run
func (p *Pipeline) logRunStart(ctx context.Context, runID string, jobs []Job) {
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	p.logger.InfoContext(ctx, "run_start",
		slog.String("run_id", runID),
		slog.Any("jobs", names),
		slog.String("output_dir", p.opts.OutputDir),
		slog.String("duplicate_policy", p.opts.DuplicatePolicy.String()),
		slog.Bool("fail_fast", p.opts.FailFast))
}

// logRunComplete logs the completion of a pipeline run
func (p *Pipeline) logRunComplete(ctx context.Context, runID string, duration time.Duration, failed int, stats infrastructure.RuntimeStats, err error) {
	if err != nil {
		p.logger.ErrorContext(ctx, "run_failed",
			slog.String("run_id", runID),
			slog.Int("failed_jobs", failed),
			slog.Duration("duration", duration),
			slog.Any("runtime", stats))
		return
	}
	p.logger.InfoContext(ctx, "run_complete",
		slog.String("run_id", runID),
		slog.Duration("duration", duration),
		slog.Any("runtime", stats))
}

// logJobStart logs the start of a job
func (p *Pipeline) logJobStart(ctx context.Context, job Job) {
	p.logger.InfoContext(ctx, "job_start",
		slog.String("job", job.Name),
		slog.String("input", job.Input),
		slog.String("title", job.Spec.Title))
}

// logJobComplete logs the completion of a job
func (p *Pipeline) logJobComplete(ctx context.Context, job Job, output string, bytes int, duration time.Duration) {
	p.logger.InfoContext(ctx, "job_complete",
		slog.String("job", job.Name),
		slog.String("output", output),
		slog.Int("bytes", bytes),
		slog.Duration("duration", duration))
}

// logJobError logs a job error
func (p *Pipeline) logJobError(ctx context.Context, job Job, err error) {
	infrastructure.WithError(p.logger, err).ErrorContext(ctx, "job_error",
		slog.String("job", job.Name),
		slog.String("error_type", string(apperrors.TypeOf(err))))
}
