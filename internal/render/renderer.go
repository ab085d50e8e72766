package render

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	apperrors "surfviz/internal/errors"
	"surfviz/internal/grid"
)

// Image is an encoded surface plot that has not been written anywhere yet.
type Image struct {
	Title    string
	Filename string
	Width    int
	Height   int
	PNG      []byte
}

// Renderer draws grids as 3D surface plots. A Renderer holds no per-call
// state; Render may be called repeatedly with the same result for the
// same input.
type Renderer struct {
	opts   Options
	cmap   ColorFunc
	font   *text.FontSource
	logger *slog.Logger
}

// NewRenderer validates opts and loads the embedded font.
func NewRenderer(opts Options, logger *slog.Logger) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cmap, err := Colormap(opts.Colormap)
	if err != nil {
		return nil, err
	}

	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to load font", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		opts:   opts,
		cmap:   cmap,
		font:   font,
		logger: logger.With(slog.String("component", "renderer")),
	}, nil
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Close releases the font.
func (r *Renderer) Close() error {
	return r.font.Close()
}

// Render draws g and encodes it as PNG.
func (r *Renderer) Render(ctx context.Context, g *grid.Grid, spec RenderSpec) (*Image, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if g.Empty() {
		return nil, apperrors.NewRenderError("grid is empty", nil).
			WithContext("title", spec.Title)
	}

	summary := grid.Summarize(g)
	if summary.Valid == 0 {
		return nil, apperrors.NewRenderError("grid has no values, every cell is a gap", nil).
			WithContext("title", spec.Title).
			WithContext("cells", summary.Cells)
	}

	ranges, err := plotRanges(g, summary)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewRenderError("render cancelled", err)
	}

	start := time.Now()
	width, height := r.opts.PixelSize()

	dc := gg.NewContext(width, height)
	defer dc.Close()

	f := faces{
		title: r.font.Face(r.opts.points(12)),
		label: r.font.Face(r.opts.points(10)),
		tick:  r.font.Face(r.opts.points(8)),
	}

	if err := newScene(g, spec, summary, ranges, r.opts, r.cmap, f).draw(dc); err != nil {
		return nil, apperrors.NewRenderError("failed to draw surface", err).
			WithContext("title", spec.Title)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperrors.NewRenderError("failed to encode PNG", err).
			WithContext("title", spec.Title)
	}

	img := &Image{
		Title:    spec.Title,
		Filename: FilenameFor(spec.Title),
		Width:    width,
		Height:   height,
		PNG:      buf.Bytes(),
	}

	r.logger.DebugContext(ctx, "Surface rendered",
		slog.String("title", spec.Title),
		slog.Int("rows", g.Rows()),
		slog.Int("cols", g.Cols()),
		slog.Int("gaps", summary.Gaps),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("bytes", len(img.PNG)),
		slog.Duration("duration", time.Since(start)))

	return img, nil
}

// RenderSurface renders g, saves it under dir and hands the saved file to
// displayer, if any. Display failures are logged and otherwise ignored.
func (r *Renderer) RenderSurface(ctx context.Context, g *grid.Grid, spec RenderSpec, dir string, createDir bool, displayer Displayer) (*Image, string, error) {
	img, err := r.Render(ctx, g, spec)
	if err != nil {
		return nil, "", err
	}

	path, err := Save(img, dir, createDir)
	if err != nil {
		return img, "", err
	}

	if displayer != nil {
		if err := displayer.Display(ctx, path); err != nil {
			r.logger.WarnContext(ctx, "Failed to display image",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	return img, path, nil
}
