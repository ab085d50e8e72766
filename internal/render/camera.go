package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// camera is an orthographic view of the unit cube centered on the origin.
type camera struct {
	eye   r3.Vec // unit vector pointing from the scene towards the viewer
	right r3.Vec
	up    r3.Vec
}

func newCamera(elevation, azimuth float64) camera {
	e := elevation * math.Pi / 180
	a := azimuth * math.Pi / 180

	eye := r3.Vec{X: math.Cos(e) * math.Cos(a), Y: math.Cos(e) * math.Sin(a), Z: math.Sin(e)}
	// horizontal screen axis; defined from the azimuth alone so that a
	// camera looking straight down still has a valid frame
	right := r3.Vec{X: -math.Sin(a), Y: math.Cos(a)}
	up := r3.Cross(right, r3.Scale(-1, eye))

	return camera{eye: eye, right: right, up: r3.Unit(up)}
}

// project returns screen coordinates (u to the right, v upwards) and the
// depth of p. Larger depth is closer to the viewer.
func (c camera) project(p r3.Vec) (u, v, depth float64) {
	return r3.Dot(p, c.right), r3.Dot(p, c.up), r3.Dot(p, c.eye)
}

// side returns +1 or -1 for the half of axis component v facing the viewer.
func side(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
