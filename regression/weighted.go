package regression

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// weightedModel fits a line where recent samples weigh more: the i-th of n
// samples gets exp(i/n) on the primary path and 1 + i/n on the fallback.
type weightedModel struct {
	base
}

func (m *weightedModel) MinSamples() int {
	return 2
}

func (m *weightedModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	if len(x) < m.MinSamples() {
		return m.finish(start, len(x), Result{Coefficients: []float64{0, 0}, Path: PathInsufficient})
	}

	return m.finish(start, len(x), m.fitOrFallback(x, y, m.tryProtected, m.fallback))
}

func (m *weightedModel) tryProtected(x, y []float64) (Result, error) {
	w, release := pool.GetFloat64Slice(len(x))
	defer release()
	n := float64(len(x))
	for i := range w {
		w[i] = math.Exp(float64(i) / n)
	}

	intercept, slope, err := fitWeightedLine(x, y, w)
	if errors.Is(err, errSingular) {
		level := stat.Mean(y, w)
		if !isFinite(level) {
			return Result{}, errNumericOverflow
		}

		return flatLine(level), nil
	}
	if err != nil {
		return Result{}, err
	}

	coeffs := []float64{intercept, slope}

	return Result{
		Coefficients: coeffs,
		StdDev:       weightedStdDev(x, y, w, coeffs),
		Path:         PathPrimary,
	}, nil
}

func (m *weightedModel) fallback(x, y []float64) Result {
	w, releaseW := pool.GetFloat64Slice(len(x))
	defer releaseW()
	xn, releaseX := pool.GetFloat64Slice(len(x))
	defer releaseX()
	yn, releaseY := pool.GetFloat64Slice(len(y))
	defer releaseY()

	n := float64(len(x))
	for i := range w {
		w[i] = 1 + float64(i)/n
	}
	sx, sy := newScale(x), newScale(y)
	sx.normalizeInto(xn, x)
	sy.normalizeInto(yn, y)

	a, b, err := fitWeightedLine(xn, yn, w)
	if err != nil {
		return flatLine(sy.denormalize(stat.Mean(yn, w)))
	}

	coeffs, ok := denormalizeLine(a, b, sx, sy)
	if !ok {
		return flatLine(sy.denormalize(stat.Mean(yn, w)))
	}

	return Result{
		Coefficients: coeffs,
		StdDev:       weightedStdDev(x, y, w, coeffs),
		Path:         PathFallback,
	}
}

func (m *weightedModel) Evaluate(coeffs []float64, x float64) float64 {
	return evalLine(coeffs, x)
}

// weightedStdDev returns sqrt(sum(w*r^2) / sum(w)) of the line residuals.
func weightedStdDev(x, y, w, coeffs []float64) float64 {
	var sumW, sumWR2 float64
	for i := range y {
		r := y[i] - evalLine(coeffs, x[i])
		sumW += w[i]
		sumWR2 += w[i] * r * r
	}
	if sumW <= 0 {
		return rangeStdDev(y)
	}

	return sanitizeStdDev(math.Sqrt(sumWR2/sumW), y)
}
