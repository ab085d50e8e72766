package render

import (
	"math"
	"strconv"
)

// niceTicks returns at most about maxTicks round values inside [lo, hi].
// Ranges that cannot be divided into round steps give just lo.
func niceTicks(lo, hi float64, maxTicks int) []float64 {
	if !(hi > lo) || maxTicks < 2 || math.IsInf(hi-lo, 0) {
		return []float64{lo}
	}

	step := niceNum((hi-lo)/float64(maxTicks-1), true)
	if !(step > 0) || math.IsInf(step, 0) {
		return []float64{lo}
	}
	first := math.Ceil(lo/step - 1e-9)
	last := math.Floor(hi/step + 1e-9)

	// beyond 2^53 consecutive multiples of step are no longer distinct
	n := last - first
	if math.IsNaN(n) || n > float64(4*maxTicks) || first+1 == first {
		return []float64{lo}
	}

	ticks := make([]float64, 0, maxTicks+1)
	for i := 0; float64(i) <= n; i++ {
		v := (first + float64(i)) * step
		if v == 0 {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)

	var nf float64
	switch {
	case round && f < 1.5:
		nf = 1
	case round && f < 3:
		nf = 2
	case round && f < 7:
		nf = 5
	case round:
		nf = 10
	case f <= 1:
		nf = 1
	case f <= 2:
		nf = 2
	case f <= 5:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

// formatTick prints v with as many decimals as the tick spacing needs.
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	if math.Abs(v) >= 1e6 || (v != 0 && math.Abs(v) < 1e-4) {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
