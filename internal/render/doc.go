// Package render draws grids as 3D surface plots and writes them as PNG
// images.
//
// A Renderer projects the grid orthographically from a fixed camera,
// paints the cells back to front with a perceptually uniform colormap and
// adds back panes, axis ticks, axis labels and a title. Cells that touch a
// gap are left out so missing data shows as a hole in the surface. Grids
// with a single row or column are drawn as markers joined by segments.
//
// Rendering is split from output: Render returns an encoded Image, Save
// writes it to a directory and a Displayer optionally shows the saved file.
// RenderSurface runs the three steps in order.
//
// Example usage:
//
//	r, err := render.NewRenderer(render.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	img, path, err := r.RenderSurface(ctx, g, render.RenderSpec{
//	    Title:  "Delta Surface",
//	    XLabel: "Asset Price",
//	    YLabel: "Time to Maturity",
//	    ZLabel: "Call Option Delta",
//	}, imagesDir, true, render.NoopDisplay{})
package render
