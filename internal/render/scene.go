package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"gonum.org/v1/gonum/spatial/r3"

	apperrors "surfviz/internal/errors"
	"surfviz/internal/grid"
)

// Half extents of the plot box, matching the usual 4:4:3 aspect of 3D axes.
var box = r3.Vec{X: 0.5, Y: 0.5, Z: 0.375}

var (
	paneColor = gg.RGB(0.95, 0.95, 0.95)
	edgeColor = gg.RGB(0.70, 0.70, 0.70)
	gridColor = gg.RGB(0.84, 0.84, 0.84)
	inkColor  = gg.RGB(0.10, 0.10, 0.10)
	lightDir  = r3.Unit(r3.Vec{X: -1, Y: -1, Z: 1})
)

const (
	maxTicks   = 5
	baselineAt = 0.8 // baseline offset as a fraction of line height
)

type axisRange struct{ lo, hi float64 }

func newAxisRange(lo, hi float64) axisRange {
	if hi > lo {
		return axisRange{lo, hi}
	}
	d := math.Abs(lo) * 0.05
	if d == 0 {
		d = 0.5
	}
	return axisRange{lo - d, hi + d}
}

// finite reports whether the range and its span are representable.
func (a axisRange) finite() bool {
	return !math.IsInf(a.lo, 0) && !math.IsInf(a.hi, 0) && !math.IsInf(a.hi-a.lo, 0)
}

// plotRanges returns the x, y and z ranges of g. Ranges whose bounds or
// span overflow float64 cannot be projected and are a RenderError.
func plotRanges(g *grid.Grid, summary grid.Summary) ([3]axisRange, error) {
	ranges := [3]axisRange{
		newAxisRange(g.X[0], g.X[len(g.X)-1]),
		newAxisRange(g.Y[0], g.Y[len(g.Y)-1]),
		newAxisRange(summary.Min, summary.Max),
	}
	for i, r := range ranges {
		if !r.finite() {
			return ranges, apperrors.NewRenderError(
				fmt.Sprintf("%s range [%g, %g] is too wide to plot", axisNames[i], r.lo, r.hi), nil).
				WithContext("axis", axisNames[i])
		}
	}
	return ranges, nil
}

var axisNames = [3]string{"x", "y", "z"}

// norm maps v onto [-half, half].
func (a axisRange) norm(v, half float64) float64 {
	return ((v-a.lo)/(a.hi-a.lo) - 0.5) * 2 * half
}

type faces struct {
	title, label, tick text.Face
}

// quad is one projected surface cell.
type quad struct {
	pts   [4][2]float64
	depth float64
	color gg.RGBA
}

// marker is a valid cell that no quad covers.
type marker struct {
	x, y, depth float64
	color       gg.RGBA
}

// scene draws one surface onto a context.
type scene struct {
	g       *grid.Grid
	spec    RenderSpec
	summary grid.Summary
	cam     camera
	cmap    ColorFunc
	faces   faces
	opts    Options

	xr, yr, zr axisRange

	width, height float64
	scale         float64
	cx, cy        float64
	uc, vc        float64
	err           error
}

func newScene(g *grid.Grid, spec RenderSpec, summary grid.Summary, ranges [3]axisRange, opts Options, cmap ColorFunc, f faces) *scene {
	w, h := opts.PixelSize()
	s := &scene{
		g:       g,
		spec:    spec,
		summary: summary,
		cam:     newCamera(opts.Elevation, opts.Azimuth),
		cmap:    cmap,
		faces:   f,
		opts:    opts,
		xr:      ranges[0],
		yr:      ranges[1],
		zr:      ranges[2],
		width:   float64(w),
		height:  float64(h),
	}
	s.layout()
	return s
}

// layout fits the projected box into the area below the title.
func (s *scene) layout() {
	margin := s.opts.points(6)
	top := margin + s.opts.points(12)*1.6
	pad := s.opts.points(8)*3 + s.opts.points(10)*1.5

	umin, vmin := math.Inf(1), math.Inf(1)
	umax, vmax := math.Inf(-1), math.Inf(-1)
	for _, c := range boxCorners() {
		u, v, _ := s.cam.project(c)
		umin, umax = math.Min(umin, u), math.Max(umax, u)
		vmin, vmax = math.Min(vmin, v), math.Max(vmax, v)
	}

	availW := s.width - 2*margin - 2*pad
	availH := s.height - top - margin - 2*pad
	s.scale = math.Max(math.Min(availW/(umax-umin), availH/(vmax-vmin)), 1e-3)
	s.cx = s.width / 2
	s.cy = top + (s.height-top-margin)/2
	s.uc = (umin + umax) / 2
	s.vc = (vmin + vmax) / 2
}

func boxCorners() []r3.Vec {
	out := make([]r3.Vec, 0, 8)
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, z := range []float64{-1, 1} {
				out = append(out, r3.Vec{X: x * box.X, Y: y * box.Y, Z: z * box.Z})
			}
		}
	}
	return out
}

func (s *scene) screen(p r3.Vec) (float64, float64) {
	u, v, _ := s.cam.project(p)
	return s.cx + (u-s.uc)*s.scale, s.cy - (v-s.vc)*s.scale
}

// point maps a data triple into box coordinates.
func (s *scene) point(x, y, z float64) r3.Vec {
	return r3.Vec{X: s.xr.norm(x, box.X), Y: s.yr.norm(y, box.Y), Z: s.zr.norm(z, box.Z)}
}

func (s *scene) colorOf(z float64) gg.RGBA {
	if s.summary.Max > s.summary.Min {
		return s.cmap((z - s.summary.Min) / (s.summary.Max - s.summary.Min))
	}
	return s.cmap(0.5)
}

// check keeps the first drawing error.
func (s *scene) check(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

func (s *scene) setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func (s *scene) draw(dc *gg.Context) error {
	dc.ClearWithColor(gg.White)

	s.drawPanes(dc)
	s.drawSurface(dc)
	s.drawAxes(dc)
	s.drawTitle(dc)

	return s.err
}

// Orientation of the box faces relative to the viewer.
func (s *scene) sides() (sx, sy, sz float64) {
	return side(s.cam.eye.X), side(s.cam.eye.Y), side(s.cam.eye.Z)
}

func (s *scene) drawPanes(dc *gg.Context) {
	sx, sy, sz := s.sides()
	xPane, yPane, floor := -sx*box.X, -sy*box.Y, -sz*box.Z

	panes := [][4]r3.Vec{
		{{X: xPane, Y: -box.Y, Z: -box.Z}, {X: xPane, Y: box.Y, Z: -box.Z}, {X: xPane, Y: box.Y, Z: box.Z}, {X: xPane, Y: -box.Y, Z: box.Z}},
		{{X: -box.X, Y: yPane, Z: -box.Z}, {X: box.X, Y: yPane, Z: -box.Z}, {X: box.X, Y: yPane, Z: box.Z}, {X: -box.X, Y: yPane, Z: box.Z}},
		{{X: -box.X, Y: -box.Y, Z: floor}, {X: box.X, Y: -box.Y, Z: floor}, {X: box.X, Y: box.Y, Z: floor}, {X: -box.X, Y: box.Y, Z: floor}},
	}
	dc.SetLineWidth(s.opts.points(0.6))
	for _, pane := range panes {
		s.path(dc, pane[:])
		s.setColor(dc, paneColor)
		s.check(dc.FillPreserve())
		s.setColor(dc, edgeColor)
		s.check(dc.Stroke())
	}

	dc.SetLineWidth(s.opts.points(0.4))
	s.setColor(dc, gridColor)
	for _, t := range niceTicks(s.xr.lo, s.xr.hi, maxTicks) {
		x := s.xr.norm(t, box.X)
		s.line(dc, r3.Vec{X: x, Y: -box.Y, Z: floor}, r3.Vec{X: x, Y: box.Y, Z: floor})
		s.line(dc, r3.Vec{X: x, Y: yPane, Z: -box.Z}, r3.Vec{X: x, Y: yPane, Z: box.Z})
	}
	for _, t := range niceTicks(s.yr.lo, s.yr.hi, maxTicks) {
		y := s.yr.norm(t, box.Y)
		s.line(dc, r3.Vec{X: -box.X, Y: y, Z: floor}, r3.Vec{X: box.X, Y: y, Z: floor})
		s.line(dc, r3.Vec{X: xPane, Y: y, Z: -box.Z}, r3.Vec{X: xPane, Y: y, Z: box.Z})
	}
	for _, t := range niceTicks(s.zr.lo, s.zr.hi, maxTicks) {
		z := s.zr.norm(t, box.Z)
		s.line(dc, r3.Vec{X: xPane, Y: -box.Y, Z: z}, r3.Vec{X: xPane, Y: box.Y, Z: z})
		s.line(dc, r3.Vec{X: -box.X, Y: yPane, Z: z}, r3.Vec{X: box.X, Y: yPane, Z: z})
	}
}

func (s *scene) path(dc *gg.Context, pts []r3.Vec) {
	for i, p := range pts {
		x, y := s.screen(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func (s *scene) line(dc *gg.Context, a, b r3.Vec) {
	x1, y1 := s.screen(a)
	x2, y2 := s.screen(b)
	dc.DrawLine(x1, y1, x2, y2)
	s.check(dc.Stroke())
}

// drawSurface paints the cells back to front. Cells with a gap corner are
// left out; valid cells that no quad touches are drawn as markers.
func (s *scene) drawSurface(dc *gg.Context) {
	rows, cols := s.g.Rows(), s.g.Cols()
	covered := make([]bool, rows*cols)

	var quads []quad
	for i := 0; i+1 < rows; i++ {
		for j := 0; j+1 < cols; j++ {
			idx := [4][2]int{{i, j}, {i, j + 1}, {i + 1, j + 1}, {i + 1, j}}

			var pts [4]r3.Vec
			var sum float64
			gap := false
			for k, c := range idx {
				z := s.g.At(c[0], c[1])
				if grid.IsGap(z) {
					gap = true
					break
				}
				pts[k] = s.point(s.g.X[c[1]], s.g.Y[c[0]], z)
				sum += z
			}
			if gap {
				continue
			}

			q := quad{color: s.shade(s.colorOf(sum/4), pts)}
			for k, p := range pts {
				q.pts[k][0], q.pts[k][1] = s.screen(p)
				_, _, d := s.cam.project(p)
				q.depth += d / 4
				covered[idx[k][0]*cols+idx[k][1]] = true
			}
			quads = append(quads, q)
		}
	}

	sort.SliceStable(quads, func(a, b int) bool { return quads[a].depth < quads[b].depth })

	dc.SetLineWidth(math.Max(1, s.opts.points(0.25)))
	for _, q := range quads {
		dc.MoveTo(q.pts[0][0], q.pts[0][1])
		for _, p := range q.pts[1:] {
			dc.LineTo(p[0], p[1])
		}
		dc.ClosePath()
		s.setColor(dc, q.color)
		s.check(dc.FillPreserve())
		s.check(dc.Stroke())
	}

	if rows == 1 || cols == 1 {
		s.drawPolyline(dc)
	}

	var markers []marker
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z := s.g.At(i, j)
			if covered[i*cols+j] || grid.IsGap(z) {
				continue
			}
			p := s.point(s.g.X[j], s.g.Y[i], z)
			x, y := s.screen(p)
			_, _, d := s.cam.project(p)
			markers = append(markers, marker{x: x, y: y, depth: d, color: s.colorOf(z)})
		}
	}
	sort.SliceStable(markers, func(a, b int) bool { return markers[a].depth < markers[b].depth })

	r := s.opts.points(2.5)
	for _, m := range markers {
		dc.DrawCircle(m.x, m.y, r)
		s.setColor(dc, m.color)
		s.check(dc.Fill())
	}
}

// drawPolyline joins consecutive valid cells of a single row or column.
func (s *scene) drawPolyline(dc *gg.Context) {
	type vertex struct {
		p r3.Vec
		z float64
	}
	var line []vertex
	for i := 0; i < s.g.Rows(); i++ {
		for j := 0; j < s.g.Cols(); j++ {
			z := s.g.At(i, j)
			if grid.IsGap(z) {
				line = append(line, vertex{z: z})
				continue
			}
			line = append(line, vertex{p: s.point(s.g.X[j], s.g.Y[i], z), z: z})
		}
	}

	dc.SetLineWidth(s.opts.points(1.2))
	for k := 0; k+1 < len(line); k++ {
		a, b := line[k], line[k+1]
		if grid.IsGap(a.z) || grid.IsGap(b.z) {
			continue
		}
		s.setColor(dc, s.colorOf((a.z+b.z)/2))
		s.line(dc, a.p, b.p)
	}
}

// shade darkens c by how far the cell faces away from the light.
func (s *scene) shade(c gg.RGBA, pts [4]r3.Vec) gg.RGBA {
	n := r3.Cross(r3.Sub(pts[2], pts[0]), r3.Sub(pts[3], pts[1]))
	if r3.Norm(n) == 0 {
		return c
	}
	f := 0.65 + 0.35*math.Abs(r3.Dot(r3.Unit(n), lightDir))
	return gg.RGBA{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

type axis struct {
	rng   axisRange
	half  float64
	label string
	// at places a normalized axis value on the tick edge
	at func(v float64) r3.Vec
	// horizontal keeps labels level with their ticks
	horizontal bool
}

func (s *scene) drawAxes(dc *gg.Context) {
	sx, sy, sz := s.sides()
	floor := -sz * box.Z

	// vertical edge for the z axis: whichever silhouette edge is leftmost
	zx, zy := sx*box.X, -sy*box.Y
	u1, _, _ := s.cam.project(r3.Vec{X: zx, Y: zy})
	u2, _, _ := s.cam.project(r3.Vec{X: -zx, Y: -zy})
	if u2 < u1 {
		zx, zy = -zx, -zy
	}

	axes := []axis{
		{rng: s.xr, half: box.X, label: s.spec.XLabel, at: func(v float64) r3.Vec { return r3.Vec{X: v, Y: sy * box.Y, Z: floor} }},
		{rng: s.yr, half: box.Y, label: s.spec.YLabel, at: func(v float64) r3.Vec { return r3.Vec{X: sx * box.X, Y: v, Z: floor} }},
		{rng: s.zr, half: box.Z, label: s.spec.ZLabel, at: func(v float64) r3.Vec { return r3.Vec{X: zx, Y: zy, Z: v} }, horizontal: true},
	}

	for _, a := range axes {
		s.drawAxis(dc, a)
	}
}

func (s *scene) drawAxis(dc *gg.Context, a axis) {
	ox, oy := s.screen(r3.Vec{})
	mx, my := s.screen(a.at(0))
	dx, dy := mx-ox, my-oy
	if a.horizontal {
		dx, dy = side(dx), 0
	}
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l, dy/l
	} else {
		dx, dy = 0, 1
	}

	tickLen := s.opts.points(3)
	gap := s.opts.points(2)

	s.setColor(dc, edgeColor)
	dc.SetLineWidth(s.opts.points(0.8))
	s.line(dc, a.at(-a.half), a.at(a.half))

	ticks := niceTicks(a.rng.lo, a.rng.hi, maxTicks)
	step := 0.0
	if len(ticks) > 1 {
		step = ticks[1] - ticks[0]
	}

	dc.SetFont(s.faces.tick)
	extent := 0.0
	for _, t := range ticks {
		x, y := s.screen(a.at(a.rng.norm(t, a.half)))

		s.setColor(dc, inkColor)
		dc.SetLineWidth(s.opts.points(0.6))
		dc.DrawLine(x, y, x+dx*tickLen, y+dy*tickLen)
		s.check(dc.Stroke())

		label := formatTick(t, step)
		w, h := dc.MeasureString(label)
		extent = math.Max(extent, math.Abs(dx)*w+math.Abs(dy)*h)
		drawText(dc, label, x+dx*(tickLen+gap), y+dy*(tickLen+gap), (1-dx)/2, (1-dy)/2)
	}

	if a.label == "" {
		return
	}
	dc.SetFont(s.faces.label)
	off := tickLen + 2*gap + extent + gap
	drawText(dc, a.label, mx+dx*off, my+dy*off, (1-dx)/2, (1-dy)/2)
}

func (s *scene) drawTitle(dc *gg.Context) {
	dc.SetFont(s.faces.title)
	s.setColor(dc, inkColor)
	drawText(dc, s.spec.Title, s.width/2, s.opts.points(6), 0.5, 0)
}

// drawText places s so that the point (ax, ay) of its bounding box, with
// (0, 0) the top-left corner and (1, 1) the bottom-right, lands on (x, y).
func drawText(dc *gg.Context, s string, x, y, ax, ay float64) {
	w, h := dc.MeasureString(s)
	left := x - ax*w
	top := y - ay*h
	dc.DrawString(s, left, top+baselineAt*h)
}
