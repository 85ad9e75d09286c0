package regression

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

const (
	// epsilon guards logarithms and divisions against zero.
	epsilon = 1e-10
	// degenerateThreshold is the magnitude below which a normal-equation
	// denominator is treated as zero.
	degenerateThreshold = 1e-10
	// DegenerateStdDev is reported for perfectly degenerate fits so a channel
	// never collapses to zero width.
	DegenerateStdDev = 0.0001
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if !isFinite(v) {
			return false
		}
	}

	return true
}

// alignSamples trims x and y to their common prefix.
func alignSamples(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	return x[:n], y[:n]
}

// finiteRange returns the minimum and maximum of the finite entries of values.
// ok is false when values holds no finite entry.
func finiteRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}

	return lo, hi, true
}

// rangeStdDev is the stand-in deviation used when a residual deviation overflows.
func rangeStdDev(y []float64) float64 {
	lo, hi, ok := finiteRange(y)
	if !ok {
		return 1
	}
	r := hi - lo
	if r <= 0 || !isFinite(r) {
		return 1
	}

	return 0.1 * r
}

// sanitizeStdDev replaces a non-finite or negative deviation with rangeStdDev.
func sanitizeStdDev(sd float64, y []float64) float64 {
	if !isFinite(sd) || sd < 0 {
		return rangeStdDev(y)
	}

	return sd
}

// residualStdDev returns the root mean square of y_i - eval(coeffs, x_i).
func residualStdDev(x, y, coeffs []float64, eval func([]float64, float64) float64) float64 {
	if len(y) == 0 {
		return 0
	}

	var sum float64
	for i := range y {
		r := y[i] - eval(coeffs, x[i])
		sum += r * r
	}

	return sanitizeStdDev(math.Sqrt(sum/float64(len(y))), y)
}

// evalFallback is the value Evaluate returns for malformed coefficients or a
// non-finite evaluation.
func evalFallback(coeffs []float64) float64 {
	if len(coeffs) > 0 && isFinite(coeffs[0]) {
		return coeffs[0]
	}

	return 0
}

// finiteOrFallback returns v when it is finite, otherwise evalFallback(coeffs).
func finiteOrFallback(v float64, coeffs []float64) float64 {
	if isFinite(v) {
		return v
	}

	return evalFallback(coeffs)
}

// mean returns the arithmetic mean of values, or 0 for an empty slice.
// Finite samples whose sum overflows are averaged incrementally instead.
func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	if isFinite(m) || !allFinite(values...) {
		return m
	}

	return runningMean(values)
}

// runningMean averages finite values without forming their sum.
func runningMean(values []float64) float64 {
	var m float64
	for i, v := range values {
		k := float64(i + 1)
		m += v/k - m/k
	}

	return m
}

// finiteMean returns the mean of the finite entries of values, or 0.
func finiteMean(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}

	return mean(finite)
}

// median returns the median of values. The input is not reordered.
func median(values []float64) float64 {
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	if isFinite(m) || !allFinite(values...) {
		return m
	}

	// the two middle values overflowed when added
	sorted := slices.Sorted(slices.Values(values))
	mid := len(sorted) / 2

	return sorted[mid-1]/2 + sorted[mid]/2
}

// finiteMedian returns the median of the finite entries of values, or 0.
func finiteMedian(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}

	return median(finite)
}

// scale maps a sample range onto [0, 1]. A zero span maps every value to 0.
type scale struct {
	lo   float64
	span float64
}

func newScale(values []float64) scale {
	lo, hi, ok := finiteRange(values)
	if !ok {
		return scale{}
	}
	span := hi - lo
	if !isFinite(span) || span <= epsilon {
		return scale{lo: lo}
	}

	return scale{lo: lo, span: span}
}

func (s scale) normalize(v float64) float64 {
	if math.IsNaN(v) || s.span == 0 {
		return 0
	}

	return clamp((v-s.lo)/s.span, 0, 1)
}

func (s scale) denormalize(v float64) float64 {
	return s.lo + v*s.span
}

// normalizeInto writes the normalized values of src into dst.
func (s scale) normalizeInto(dst, src []float64) {
	for i, v := range src {
		dst[i] = s.normalize(v)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
