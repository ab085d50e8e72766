// Package operations runs surface jobs.
//
// A Job names an input table and the text of the image rendered from it.
// Pipeline.Run executes jobs one after another, each through the same
// steps: validate the input file, load the table, pivot it into a grid,
// render, save and optionally display the image. Every step runs in its own
// trace span and feeds the render metrics.
//
// Jobs are independent by default: a failed job is recorded in the
// RunManifest and the next job still runs. With FailFast the remaining
// jobs are marked skipped instead. The error returned by Run joins the
// failures of every job.
//
// Example usage:
//
//	pipeline, err := operations.NewPipeline(renderer, opts)
//	if err != nil {
//	    return err
//	}
//	manifest, err := pipeline.Run(ctx, operations.DefaultJobs(paths))
package operations
