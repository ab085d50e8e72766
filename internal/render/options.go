package render

import (
	"fmt"
	"math"

	"surfviz/internal/config"
	apperrors "surfviz/internal/errors"
)

// Options controls the size, camera and colors of rendered images.
type Options struct {
	WidthInches  float64
	HeightInches float64
	DPI          float64
	// Elevation and Azimuth are the camera angles in degrees.
	Elevation float64
	Azimuth   float64
	Colormap  string
}

// maxSide bounds either pixel dimension of an image.
const maxSide = 20000

// DefaultOptions returns a 6.4 x 4.8 inch figure at 500 DPI seen from
// 30 degrees elevation and 120 degrees azimuth, colored with viridis.
func DefaultOptions() Options {
	return Options{
		WidthInches:  6.4,
		HeightInches: 4.8,
		DPI:          500,
		Elevation:    30,
		Azimuth:      120,
		Colormap:     "viridis",
	}
}

// OptionsFromConfig maps the render section of the configuration.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		WidthInches:  cfg.WidthInches,
		HeightInches: cfg.HeightInches,
		DPI:          cfg.DPI,
		Elevation:    cfg.Elevation,
		Azimuth:      cfg.Azimuth,
		Colormap:     cfg.Colormap,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	sizes := []struct {
		name  string
		value float64
	}{
		{"width_inches", o.WidthInches},
		{"height_inches", o.HeightInches},
		{"dpi", o.DPI},
	}
	for _, s := range sizes {
		if !(s.value > 0) || math.IsInf(s.value, 0) {
			return apperrors.NewConfigError(fmt.Sprintf("render option %s must be positive, got %g", s.name, s.value), nil)
		}
	}
	if math.IsNaN(o.Elevation) || o.Elevation < -90 || o.Elevation > 90 {
		return apperrors.NewConfigError(fmt.Sprintf("elevation must be within [-90, 90], got %g", o.Elevation), nil)
	}
	if math.IsNaN(o.Azimuth) || math.IsInf(o.Azimuth, 0) {
		return apperrors.NewConfigError("azimuth must be finite", nil)
	}
	if _, err := Colormap(o.Colormap); err != nil {
		return err
	}

	w, h := o.PixelSize()
	if w < 1 || h < 1 || w > maxSide || h > maxSide {
		return apperrors.NewConfigError(fmt.Sprintf("image size %dx%d is out of range", w, h), nil)
	}
	return nil
}

// PixelSize returns the image dimensions in pixels.
func (o Options) PixelSize() (int, int) {
	return int(math.Round(o.WidthInches * o.DPI)), int(math.Round(o.HeightInches * o.DPI))
}

// points converts a size in typographic points to pixels.
func (o Options) points(pt float64) float64 {
	return pt * o.DPI / 72
}
