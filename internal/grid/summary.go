package grid

import (
	"log/slog"

	"github.com/montanaflynn/stats"
)

// Summary describes the populated cells of a grid.
type Summary struct {
	Cells  int     `json:"cells"`
	Valid  int     `json:"valid"`
	Gaps   int     `json:"gaps"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes statistics over the non-gap cells of g. The value
// fields stay zero when there are no valid cells.
func Summarize(g *Grid) Summary {
	if g.Empty() {
		return Summary{}
	}

	s := Summary{Cells: g.Rows() * g.Cols()}
	values := make(stats.Float64Data, 0, s.Cells)
	for _, row := range g.Flatten() {
		values = append(values, row.Z)
	}
	s.Valid = len(values)
	s.Gaps = s.Cells - s.Valid
	if s.Valid == 0 {
		return s
	}

	// errors are only returned for empty input
	s.Min, _ = values.Min()
	s.Max, _ = values.Max()
	s.Mean, _ = values.Mean()
	s.Median, _ = values.Median()
	return s
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cells", s.Cells),
		slog.Int("valid", s.Valid),
		slog.Int("gaps", s.Gaps),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("median", s.Median),
	)
}
