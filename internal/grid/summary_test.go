package grid

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surfviz/internal/dataset"
)

func TestSummarize(t *testing.T) {
	g, err := Pivot(scenario(), Reject)
	require.NoError(t, err)

	s := Summarize(g)
	assert.Equal(t, 4, s.Cells)
	assert.Equal(t, 4, s.Valid)
	assert.Equal(t, 0, s.Gaps)
	assert.Equal(t, 2.3, s.Min)
	assert.Equal(t, 3.6, s.Max)
	assert.InDelta(t, 2.95, s.Mean, 1e-12)
	assert.InDelta(t, 2.95, s.Median, 1e-12)
}

func TestSummarize_Gaps(t *testing.T) {
	g, err := Pivot(table(
		dataset.Row{X: 1, Y: 1, Z: 5},
		dataset.Row{X: 2, Y: 2, Z: math.NaN()},
	), Reject)
	require.NoError(t, err)

	s := Summarize(g)
	assert.Equal(t, 4, s.Cells)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, 3, s.Gaps)
	assert.Equal(t, 5.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
}

func TestSummarize_AllGaps(t *testing.T) {
	g, err := Pivot(table(dataset.Row{X: 1, Y: 1, Z: math.NaN()}), Reject)
	require.NoError(t, err)

	s := Summarize(g)
	assert.Equal(t, Summary{Cells: 1, Gaps: 1}, s)
	assert.Equal(t, Summary{}, Summarize(&Grid{}))
}

func TestSummary_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("pivoted", "grid", Summary{Cells: 4, Valid: 3, Gaps: 1})

	assert.Contains(t, buf.String(), `"grid":{"cells":4,"valid":3,"gaps":1`)
}
