package regression

import (
	"errors"
	"math"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// fitLine solves the ordinary least squares line through (x, y).
// It returns errNumericOverflow when an accumulated sum or the solution is not
// finite, and errSingular when the denominator vanishes.
func fitLine(x, y []float64) (intercept, slope float64, err error) {
	n := float64(len(x))

	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}
	if !allFinite(sumX, sumY, sumXY, sumX2) {
		return 0, 0, errNumericOverflow
	}

	den := n*sumX2 - sumX*sumX
	if !isFinite(den) {
		return 0, 0, errNumericOverflow
	}
	if math.Abs(den) < degenerateThreshold {
		return 0, 0, errSingular
	}

	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	if !allFinite(intercept, slope) {
		return 0, 0, errNumericOverflow
	}

	return intercept, slope, nil
}

// fitWeightedLine solves the weighted least squares line through (x, y).
func fitWeightedLine(x, y, w []float64) (intercept, slope float64, err error) {
	var sumW, sumWX, sumWY, sumWXY, sumWX2 float64
	for i := range x {
		sumW += w[i]
		sumWX += w[i] * x[i]
		sumWY += w[i] * y[i]
		sumWXY += w[i] * x[i] * y[i]
		sumWX2 += w[i] * x[i] * x[i]
	}
	if !allFinite(sumW, sumWX, sumWY, sumWXY, sumWX2) {
		return 0, 0, errNumericOverflow
	}

	den := sumW*sumWX2 - sumWX*sumWX
	if !isFinite(den) {
		return 0, 0, errNumericOverflow
	}
	if math.Abs(den) < degenerateThreshold || sumW <= 0 {
		return 0, 0, errSingular
	}

	slope = (sumW*sumWXY - sumWX*sumWY) / den
	intercept = (sumWY - slope*sumWX) / sumW
	if !allFinite(intercept, slope) {
		return 0, 0, errNumericOverflow
	}

	return intercept, slope, nil
}

// evalLine evaluates [intercept, slope] at x.
func evalLine(coeffs []float64, x float64) float64 {
	if len(coeffs) < 2 {
		return evalFallback(coeffs)
	}

	return finiteOrFallback(coeffs[0]+coeffs[1]*x, coeffs)
}

// flatLine returns the degenerate result for a horizontal line at level.
func flatLine(level float64) Result {
	return Result{
		Coefficients: []float64{level, 0},
		StdDev:       DegenerateStdDev,
		Path:         PathDegenerate,
	}
}

// protectedLine fits an OLS line and reports a flat line at flatLevel(y) when
// the system is singular.
func protectedLine(x, y []float64, flatLevel func([]float64) float64) (Result, error) {
	intercept, slope, err := fitLine(x, y)
	if errors.Is(err, errSingular) {
		level := flatLevel(y)
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
		StdDev:       residualStdDev(x, y, coeffs, evalLine),
		Path:         PathPrimary,
	}, nil
}

// normalizedLine fits a line on min-max normalized samples and maps the
// coefficients back to raw units. A singular system yields a flat line at
// flatLevel applied to the raw samples.
func normalizedLine(x, y []float64, flatLevel func([]float64) float64) Result {
	sx, sy := newScale(x), newScale(y)

	xn, releaseX := pool.GetFloat64Slice(len(x))
	defer releaseX()
	yn, releaseY := pool.GetFloat64Slice(len(y))
	defer releaseY()
	sx.normalizeInto(xn, x)
	sy.normalizeInto(yn, y)

	a, b, err := fitLine(xn, yn)
	if err != nil {
		return flatLine(finiteLevel(flatLevel(y), y))
	}

	coeffs, ok := denormalizeLine(a, b, sx, sy)
	if !ok {
		return flatLine(finiteLevel(flatLevel(y), y))
	}

	return Result{
		Coefficients: coeffs,
		StdDev:       residualStdDev(x, y, coeffs, evalLine),
		Path:         PathFallback,
	}
}

// denormalizeLine maps a line fitted on normalized samples back to raw units.
func denormalizeLine(a, b float64, sx, sy scale) ([]float64, bool) {
	if sx.span == 0 {
		return nil, false
	}

	slope := sy.span * b / sx.span
	intercept := sy.lo + sy.span*a - slope*sx.lo
	if !allFinite(intercept, slope) {
		return nil, false
	}

	return []float64{intercept, slope}, true
}

// finiteLevel returns level when finite, otherwise the finite mean of y.
func finiteLevel(level float64, y []float64) float64 {
	if isFinite(level) {
		return level
	}

	return finiteMean(y)
}

// lastValue returns the most recent entry of values.
func lastValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return values[len(values)-1]
}
