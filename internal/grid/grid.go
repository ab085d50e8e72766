// Package grid pivots surface tables into rectangular grids.
package grid

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"surfviz/internal/dataset"
	apperrors "surfviz/internal/errors"
)

// DuplicatePolicy decides what Pivot does when an (x, y) pair appears twice.
type DuplicatePolicy int

const (
	// Reject fails the pivot with a DUPLICATE_COORDINATE error.
	Reject DuplicatePolicy = iota
	// LastWriteWins keeps the value from the later row.
	LastWriteWins
)

func (p DuplicatePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case LastWriteWins:
		return "last_write_wins"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy converts a configuration value into a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "last_write_wins", "last-write-wins", "lww":
		return LastWriteWins, nil
	default:
		return Reject, apperrors.NewConfigError(fmt.Sprintf("unknown duplicate policy %q", s), nil)
	}
}

// Gap is the value held by cells with no input row.
var Gap = math.NaN()

// IsGap reports whether v marks a missing cell.
func IsGap(v float64) bool { return math.IsNaN(v) }

// Grid is a rectangular surface. Column j sits at X[j], row i at Y[i] and
// Z holds the height of cell (i, j). Z is nil for an empty grid.
type Grid struct {
	X     []float64
	Y     []float64
	Z     *mat.Dense
	Names [3]string
	// Duplicates counts rows overwritten under LastWriteWins.
	Duplicates int
}

// Pivot reshapes a table into a grid. Distinct x values, sorted ascending,
// become columns and distinct y values, sorted ascending, become rows.
// Cells without a row hold Gap.
func Pivot(t *dataset.Table, policy DuplicatePolicy) (*Grid, error) {
	g := &Grid{}
	if t == nil {
		return g, nil
	}
	g.Names = t.Columns

	xs := distinct(t.Rows, func(r dataset.Row) float64 { return r.X })
	ys := distinct(t.Rows, func(r dataset.Row) float64 { return r.Y })
	g.X, g.Y = xs, ys
	if len(xs) == 0 || len(ys) == 0 {
		return g, nil
	}

	z := mat.NewDense(len(ys), len(xs), nil)
	for i := 0; i < len(ys); i++ {
		for j := 0; j < len(xs); j++ {
			z.Set(i, j, Gap)
		}
	}

	// line of the row that filled each cell, for duplicate reporting
	seen := make(map[[2]int]int, len(t.Rows))
	for _, r := range t.Rows {
		i := sort.SearchFloat64s(ys, r.Y)
		j := sort.SearchFloat64s(xs, r.X)
		key := [2]int{i, j}

		if first, dup := seen[key]; dup {
			if policy != LastWriteWins {
				return nil, apperrors.NewDuplicateCoordinateError(r.X, r.Y, first, r.Line).
					WithContext("table", t.Name)
			}
			g.Duplicates++
		}
		seen[key] = r.Line
		z.Set(i, j, r.Z)
	}

	g.Z = z
	return g, nil
}

func distinct(rows []dataset.Row, pick func(dataset.Row) float64) []float64 {
	set := make(map[float64]struct{}, len(rows))
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := pick(r)
		if v == 0 {
			v = 0 // fold -0 into 0
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Rows returns the number of distinct y values.
func (g *Grid) Rows() int { return len(g.Y) }

// Cols returns the number of distinct x values.
func (g *Grid) Cols() int { return len(g.X) }

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool {
	return g == nil || g.Z == nil || len(g.X) == 0 || len(g.Y) == 0
}

// At returns the height at row i, column j.
func (g *Grid) At(i, j int) float64 {
	return g.Z.At(i, j)
}

// Flatten returns the non-gap cells as rows, row by row.
func (g *Grid) Flatten() []dataset.Row {
	if g.Empty() {
		return nil
	}
	out := make([]dataset.Row, 0, g.Rows()*g.Cols())
	for i, y := range g.Y {
		for j, x := range g.X {
			z := g.Z.At(i, j)
			if IsGap(z) {
				continue
			}
			out = append(out, dataset.Row{X: x, Y: y, Z: z})
		}
	}
	return out
}
