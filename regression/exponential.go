package regression

import (
	"errors"
	"math"
	"time"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// maxLnA bounds ln(a) in the exponential fallback.
const maxLnA = 700

// exponentialModel fits y = a*e^(b*x) by regressing ln(y) on x.
type exponentialModel struct {
	base
}

func (m *exponentialModel) MinSamples() int {
	return 2
}

func (m *exponentialModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	if len(x) < m.MinSamples() {
		return m.finish(start, len(x), Result{Coefficients: []float64{1, 0}, Path: PathInsufficient})
	}

	return m.finish(start, len(x), m.fitOrFallback(x, y, m.tryProtected, m.fallback))
}

func (m *exponentialModel) tryProtected(x, y []float64) (Result, error) {
	ly, release := pool.GetFloat64Slice(len(y))
	defer release()
	for i, v := range y {
		if !(v > 0) || !isFinite(v) {
			return Result{}, errNonPositive
		}
		ly[i] = math.Log(v)
	}

	lnA, b, err := fitLine(x, ly)
	if errors.Is(err, errSingular) {
		level := mean(y)
		if !isFinite(level) {
			return Result{}, errNumericOverflow
		}

		return flatLine(level), nil
	}
	if err != nil {
		return Result{}, err
	}

	a := math.Exp(lnA)
	if !allFinite(a, b) {
		return Result{}, errNumericOverflow
	}
	coeffs := []float64{a, b}

	return Result{
		Coefficients: coeffs,
		StdDev:       residualStdDev(x, y, coeffs, m.Evaluate),
		Path:         PathPrimary,
	}, nil
}

// fallback lifts y above zero, scales it by its maximum and normalizes x
// before fitting, then maps the coefficients back to raw units.
func (m *exponentialModel) fallback(x, y []float64) Result {
	ys, releaseYS := pool.GetFloat64Slice(len(y))
	defer releaseYS()
	xn, releaseX := pool.GetFloat64Slice(len(x))
	defer releaseX()
	ly, releaseLY := pool.GetFloat64Slice(len(y))
	defer releaseLY()

	yMax := epsilon
	for i, v := range y {
		if !isFinite(v) || v < epsilon {
			v = epsilon
		}
		ys[i] = v
		yMax = math.Max(yMax, v)
	}
	for i, v := range ys {
		ly[i] = math.Log(math.Max(v/yMax, epsilon))
	}

	sx := newScale(x)
	sx.normalizeInto(xn, x)

	c, d, err := fitLine(xn, ly)
	if err != nil || sx.span == 0 {
		return flatLine(finiteMean(ys))
	}

	b := d / sx.span
	lnA := clamp(math.Log(yMax)+c-d*sx.lo/sx.span, -maxLnA, maxLnA)
	a := math.Exp(lnA)
	if !allFinite(a, b) {
		return flatLine(finiteMean(ys))
	}
	coeffs := []float64{a, b}

	return Result{
		Coefficients: coeffs,
		StdDev:       residualStdDev(x, y, coeffs, m.Evaluate),
		Path:         PathFallback,
	}
}

func (m *exponentialModel) Evaluate(coeffs []float64, x float64) float64 {
	if len(coeffs) < 2 {
		return evalFallback(coeffs)
	}

	return finiteOrFallback(coeffs[0]*math.Exp(coeffs[1]*x), coeffs)
}
