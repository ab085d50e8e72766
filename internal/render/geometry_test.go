package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCamera_Frame(t *testing.T) {
	for _, tc := range []struct{ elev, azim float64 }{{30, 120}, {0, 0}, {90, 45}, {-90, 0}, {-20, 300}} {
		c := newCamera(tc.elev, tc.azim)

		assert.InDelta(t, 1, r3.Norm(c.eye), 1e-12)
		assert.InDelta(t, 1, r3.Norm(c.right), 1e-12)
		assert.InDelta(t, 1, r3.Norm(c.up), 1e-12)
		assert.InDelta(t, 0, r3.Dot(c.eye, c.right), 1e-12)
		assert.InDelta(t, 0, r3.Dot(c.eye, c.up), 1e-12)
		assert.InDelta(t, 0, r3.Dot(c.right, c.up), 1e-12)
	}
}

func TestCamera_Project(t *testing.T) {
	c := newCamera(30, 120)

	u, v, d := c.project(r3.Vec{})
	assert.Zero(t, u)
	assert.Zero(t, v)
	assert.Zero(t, d)

	// the top of the box is above its bottom on screen
	_, vTop, _ := c.project(r3.Vec{Z: 1})
	_, vBottom, _ := c.project(r3.Vec{Z: -1})
	assert.Greater(t, vTop, vBottom)

	// a point towards the viewer is closer
	_, _, near := c.project(c.eye)
	_, _, far := c.project(r3.Scale(-1, c.eye))
	assert.Greater(t, near, far)
}

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		want   []float64
	}{
		{name: "unit", lo: 0, hi: 1, want: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{name: "asset price", lo: 50, hi: 60, want: []float64{50, 52, 54, 56, 58, 60}},
		{name: "maturity", lo: 0.1, hi: 0.2, want: []float64{0.1, 0.12, 0.14, 0.16, 0.18, 0.2}},
		{name: "offset", lo: 2.3, hi: 3.6, want: []float64{2.5, 3, 3.5}},
		{name: "crossing zero", lo: -1, hi: 1, want: []float64{-1, -0.5, 0, 0.5, 1}},
		{name: "degenerate", lo: 4, hi: 4, want: []float64{4}},
		{name: "span overflows", lo: -1e308, hi: 1e308, want: []float64{-1e308}},
		{name: "infinite bound", lo: math.MaxFloat64, hi: math.Inf(1), want: []float64{math.MaxFloat64}},
		{name: "steps below float precision", lo: 1e20, hi: 1e20 + 16384, want: []float64{1e20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := niceTicks(tt.lo, tt.hi, maxTicks)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
			for _, v := range got {
				assert.False(t, math.Signbit(v) && v == 0, "negative zero tick")
			}
		})
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		v, step float64
		want    string
	}{
		{v: 50, step: 2, want: "50"},
		{v: 0.6000000000000001, step: 0.2, want: "0.6"},
		{v: 0.12, step: 0.02, want: "0.12"},
		{v: 2.5, step: 0.5, want: "2.5"},
		{v: 0, step: 0.5, want: "0.0"},
		{v: 2e6, step: 1e6, want: "2e+06"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTick(tt.v, tt.step))
		})
	}
}

func TestAxisRange(t *testing.T) {
	r := newAxisRange(50, 60)
	assert.Equal(t, -0.5, r.norm(50, 0.5))
	assert.Equal(t, 0.5, r.norm(60, 0.5))
	assert.Equal(t, 0.0, r.norm(55, 0.5))

	flat := newAxisRange(100, 100)
	assert.InDelta(t, 95, flat.lo, 1e-9)
	assert.InDelta(t, 105, flat.hi, 1e-9)

	zero := newAxisRange(0, 0)
	assert.Equal(t, axisRange{-0.5, 0.5}, zero)

	assert.True(t, r.finite())
	assert.False(t, newAxisRange(math.MaxFloat64, math.MaxFloat64).finite())
	assert.False(t, newAxisRange(-1e308, 1e308).finite())
}
