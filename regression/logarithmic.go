package regression

import (
	"math"
	"time"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// maxLog is ln(math.MaxFloat64).
const maxLog = 709.782712893384

// logarithmicModel fits y = a + b*ln(x + epsilon) for x >= 0.
type logarithmicModel struct {
	base
}

func (m *logarithmicModel) MinSamples() int {
	return 2
}

func (m *logarithmicModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	if len(x) < m.MinSamples() {
		return m.finish(start, len(x), Result{Coefficients: []float64{0, 0}, Path: PathInsufficient})
	}

	return m.finish(start, len(x), m.fitOrFallback(x, y, m.tryProtected, m.fallback))
}

func (m *logarithmicModel) tryProtected(x, y []float64) (Result, error) {
	lx, release := pool.GetFloat64Slice(len(x))
	defer release()
	for i, v := range x {
		lx[i] = math.Log(math.Max(v, 0) + epsilon)
	}

	return protectedLine(lx, y, mean)
}

// fallback normalizes y only; the transformed x is already bounded by safeLog.
func (m *logarithmicModel) fallback(x, y []float64) Result {
	lx, releaseX := pool.GetFloat64Slice(len(x))
	defer releaseX()
	yn, releaseY := pool.GetFloat64Slice(len(y))
	defer releaseY()

	for i, v := range x {
		lx[i] = safeLog(v)
	}
	sy := newScale(y)
	sy.normalizeInto(yn, y)

	a, b, err := fitLine(lx, yn)
	if err != nil {
		return flatLine(finiteMean(y))
	}

	coeffs := []float64{sy.denormalize(a), sy.span * b}
	if !allFinite(coeffs...) {
		return flatLine(finiteMean(y))
	}

	return Result{
		Coefficients: coeffs,
		StdDev:       residualStdDev(lx, y, coeffs, evalLine),
		Path:         PathFallback,
	}
}

func (m *logarithmicModel) Evaluate(coeffs []float64, x float64) float64 {
	if len(coeffs) < 2 {
		return evalFallback(coeffs)
	}

	return finiteOrFallback(coeffs[0]+coeffs[1]*math.Log(math.Max(x, 0)+epsilon), coeffs)
}

// safeLog is ln(max(v, 0) + epsilon) bounded to a finite value for any input.
func safeLog(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return math.Log(epsilon)
	case math.IsInf(v, 1):
		return maxLog
	}

	return math.Log(v + epsilon)
}
