package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"surfviz/internal/config"
	"surfviz/internal/dataset"
	apperrors "surfviz/internal/errors"
	"surfviz/internal/grid"
	"surfviz/internal/infrastructure"
	"surfviz/internal/render"
	"surfviz/internal/validation"
)

// Job turns one input table into one surface image.
type Job struct {
	Name  string
	Input string
	Spec  render.RenderSpec
}

// DefaultJobs returns the option price and delta surface jobs, reading
// their tables from the data directory.
func DefaultJobs(paths *config.Paths) []Job {
	return []Job{
		{
			Name:  "price_surface",
			Input: paths.DataFile(config.PriceSurfaceFile),
			Spec: render.RenderSpec{
				Title:  "Option Price Surface",
				XLabel: "Asset Price",
				YLabel: "Time to Maturity",
				ZLabel: "Call Option Price",
			},
		},
		{
			Name:  "delta_surface",
			Input: paths.DataFile(config.DeltaSurfaceFile),
			Spec: render.RenderSpec{
				Title:  "Delta Surface",
				XLabel: "Asset Price",
				YLabel: "Time to Maturity",
				ZLabel: "Call Option Delta",
			},
		},
	}
}

// Options configures a Pipeline.
type Options struct {
	OutputDir       string
	CreateOutputDir bool
	DuplicatePolicy grid.DuplicatePolicy
	// FailFast stops the run at the first failed job. Otherwise every job
	// runs and the failures are joined.
	FailFast  bool
	Displayer render.Displayer
	Providers *infrastructure.OTelProviders
	Logger    *slog.Logger
}

// OptionsFromConfig builds pipeline options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, paths *config.Paths) (Options, error) {
	policy, err := grid.ParseDuplicatePolicy(cfg.Pipeline.DuplicatePolicy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		OutputDir:       paths.ImagesDir,
		CreateOutputDir: cfg.Render.CreateOutputDir,
		DuplicatePolicy: policy,
		FailFast:        cfg.Pipeline.FailFast,
	}, nil
}

// Pipeline runs jobs one after another: validate, load, pivot, render,
// save and display.
type Pipeline struct {
	renderer  *render.Renderer
	validator *validation.FileValidator
	tracer    *PipelineTracer
	opts      Options
	logger    *slog.Logger
}

// NewPipeline creates a pipeline around renderer.
func NewPipeline(renderer *render.Renderer, opts Options) (*Pipeline, error) {
	if renderer == nil {
		return nil, apperrors.NewValidationError("pipeline needs a renderer")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Displayer == nil {
		opts.Displayer = render.NoopDisplay{}
	}

	tracer, err := NewPipelineTracer(opts.Providers)
	if err != nil {
		return nil, err
	}

	logger := infrastructure.WithComponent(opts.Logger, "pipeline")
	return &Pipeline{
		renderer:  renderer,
		validator: validation.NewFileValidator(logger),
		tracer:    tracer,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Run executes jobs in order and returns the manifest of the run. The
// error joins the failures of all jobs that did not complete.
func (p *Pipeline) Run(ctx context.Context, jobs []Job) (*RunManifest, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	if err := checkJobs(jobs); err != nil {
		return nil, err
	}

	manifest := NewRunManifest(runID, jobs)
	ctx, span := p.tracer.TraceRun(ctx, runID, len(jobs))
	start := time.Now()
	p.logRunStart(ctx, runID, jobs)

	var errs []error
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("run cancelled: %w", err))
			p.skip(ctx, manifest, jobs[i:])
			break
		}

		if err := p.runJob(ctx, job, manifest); err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", job.Name, err))
			if p.opts.FailFast {
				p.skip(ctx, manifest, jobs[i+1:])
				break
			}
		}
	}

	err := errors.Join(errs...)
	manifest.Finish(err)
	p.logRunComplete(ctx, runID, time.Since(start), len(errs), p.tracer.RecordRuntime(ctx), err)
	p.tracer.End(ctx, span, err)

	return manifest, err
}

func checkJobs(jobs []Job) error {
	seen := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		if job.Name == "" {
			return apperrors.NewValidationError("job name is required")
		}
		if seen[job.Name] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate job name %q", job.Name))
		}
		seen[job.Name] = true
	}
	return nil
}

func (p *Pipeline) skip(ctx context.Context, manifest *RunManifest, jobs []Job) {
	for _, job := range jobs {
		manifest.RecordJobSkipped(job.Name)
		p.logger.WarnContext(ctx, "job_skipped", slog.String("job", job.Name))
	}
}

// runJob executes one job. Every failure ends the job.
func (p *Pipeline) runJob(ctx context.Context, job Job, manifest *RunManifest) (err error) {
	ctx, span := p.tracer.TraceJob(ctx, job)
	start := time.Now()
	manifest.RecordJobStart(job.Name)
	p.logJobStart(ctx, job)

	defer func() {
		if err != nil {
			manifest.RecordJobFailure(job.Name, err)
			p.tracer.RecordJobFailure(ctx, job.Name, time.Since(start), err)
			p.logJobError(ctx, job, err)
		}
		p.tracer.End(ctx, span, err)
	}()

	if err := p.step(ctx, job.Name, "validate", func(context.Context) error {
		return p.validator.ValidateTableFile(job.Input)
	}); err != nil {
		return err
	}

	var table *dataset.Table
	if err := p.step(ctx, job.Name, "load", func(ctx context.Context) error {
		var err error
		table, err = dataset.LoadTable(job.Input)
		if err == nil {
			p.tracer.RecordTableLoaded(ctx, job.Name, table.Len())
		}
		return err
	}); err != nil {
		return err
	}

	var g *grid.Grid
	if err := p.step(ctx, job.Name, "pivot", func(context.Context) error {
		var err error
		g, err = grid.Pivot(table, p.opts.DuplicatePolicy)
		return err
	}); err != nil {
		return err
	}
	manifest.RecordGrid(job.Name, table.Len(), g)
	if g.Duplicates > 0 {
		p.logger.WarnContext(ctx, "duplicate_coordinates_overwritten",
			slog.String("job", job.Name),
			slog.Int("count", g.Duplicates))
	}
	p.logger.DebugContext(ctx, "grid_built",
		slog.String("job", job.Name),
		slog.Int("rows", g.Rows()),
		slog.Int("cols", g.Cols()),
		slog.Any("summary", grid.Summarize(g)))

	var (
		img  *render.Image
		path string
	)
	if err := p.step(ctx, job.Name, "render", func(ctx context.Context) error {
		var err error
		img, path, err = p.renderer.RenderSurface(ctx, g, job.Spec, p.opts.OutputDir, p.opts.CreateOutputDir, p.opts.Displayer)
		return err
	}); err != nil {
		return err
	}

	duration := time.Since(start)
	manifest.RecordJobCompletion(job.Name, path, img.Width, img.Height, len(img.PNG))
	p.tracer.RecordJobSuccess(ctx, span, job.Name, duration, len(img.PNG))
	p.logJobComplete(ctx, job, path, len(img.PNG), duration)
	return nil
}

// step runs fn inside its own span.
func (p *Pipeline) step(ctx context.Context, job, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.TraceStep(ctx, job, name)
	err := fn(ctx)
	p.tracer.End(ctx, span, err)
	return err
}
