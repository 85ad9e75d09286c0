package regression

import (
	"math"
	"time"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

const (
	// minBandFraction is the smallest band half-width as a fraction of the x range.
	minBandFraction = 0.1
	// madScale multiplies the median absolute residual in the bisquare weights.
	madScale = 6
)

// lowessModel computes a locally weighted, outlier robust smoothing of y.
//
// The coefficients are a dense table holding one smoothed value per sample, in
// input order. Evaluate treats its x argument as a normalized position in
// [0, 1] across the table and interpolates linearly between neighbours.
type lowessModel struct {
	base
}

func (m *lowessModel) MinSamples() int {
	return 3
}

func (m *lowessModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	n := len(x)
	if n < m.MinSamples() {
		return m.finish(start, n, Result{Coefficients: make([]float64, max(n, 1)), Path: PathInsufficient})
	}

	return m.finish(start, n, m.fitOrFallback(x, y, m.tryProtected, m.fallback))
}

func (m *lowessModel) passes() int {
	return min(max(m.cfg.RobustIterations, 1), robustIterationCap)
}

func (m *lowessModel) tryProtected(x, y []float64) (Result, error) {
	if !allFinite(x...) || !allFinite(y...) {
		return Result{}, errNumericOverflow
	}

	smoothed := make([]float64, len(y))
	if err := m.smooth(smoothed, x, y, m.passes()); err != nil {
		return Result{}, err
	}

	return Result{
		Coefficients: smoothed,
		StdDev:       tableStdDev(y, smoothed),
		Path:         PathPrimary,
	}, nil
}

// fallback replaces non-finite samples with the finite median, normalizes
// both axes and runs a single robust reweighting before mapping the table back.
func (m *lowessModel) fallback(x, y []float64) Result {
	n := len(x)
	xs, releaseXS := pool.GetFloat64Slice(n)
	defer releaseXS()
	ys, releaseYS := pool.GetFloat64Slice(n)
	defer releaseYS()
	xn, releaseXN := pool.GetFloat64Slice(n)
	defer releaseXN()
	yn, releaseYN := pool.GetFloat64Slice(n)
	defer releaseYN()

	replaceNonFinite(xs, x, finiteMedian(x))
	replaceNonFinite(ys, y, finiteMedian(y))

	sx, sy := newScale(xs), newScale(ys)
	sx.normalizeInto(xn, xs)
	sy.normalizeInto(yn, ys)

	smoothed := make([]float64, n)
	if err := m.smooth(smoothed, xn, yn, 2); err != nil {
		level := finiteMean(ys)
		for i := range smoothed {
			smoothed[i] = level
		}
	} else {
		for i, v := range smoothed {
			smoothed[i] = sy.denormalize(v)
		}
	}

	return Result{
		Coefficients: smoothed,
		StdDev:       tableStdDev(ys, smoothed),
		Path:         PathFallback,
	}
}

// smooth runs the given number of locally weighted passes over (x, y),
// updating bisquare robustness weights between passes.
func (m *lowessModel) smooth(dst, x, y []float64, passes int) error {
	n := len(x)
	lo, hi, _ := finiteRange(x)
	span := hi - lo
	if !isFinite(span) {
		return errNumericOverflow
	}

	robust, releaseRobust := pool.GetFloat64Slice(n)
	defer releaseRobust()
	residuals, releaseResiduals := pool.GetFloat64Slice(n)
	defer releaseResiduals()
	for i := range robust {
		robust[i] = 1
	}

	for pass := 0; pass < passes; pass++ {
		for i := range x {
			edge := math.Min(x[i]-lo, hi-x[i])
			band := math.Max(math.Max(math.Min(m.cfg.Bandwidth*span, edge), minBandFraction*span), epsilon)

			var sumW, sumWY float64
			for j := range x {
				d := math.Abs(x[j]-x[i]) / band
				if d >= 1 {
					continue
				}
				w := tricube(d) * robust[j]
				sumW += w
				sumWY += w * y[j]
			}

			if sumW < epsilon {
				dst[i] = median(y)
			} else {
				dst[i] = sumWY / sumW
			}
			if !isFinite(dst[i]) {
				return errNumericOverflow
			}
		}

		if pass == passes-1 {
			break
		}

		for i := range y {
			residuals[i] = math.Abs(y[i] - dst[i])
		}
		mad := math.Max(madScale*median(residuals), epsilon)
		for i, r := range residuals {
			u := r / mad
			if u < 1 {
				robust[i] = (1 - u*u) * (1 - u*u)
			} else {
				robust[i] = 0
			}
		}
	}

	return nil
}

func tricube(d float64) float64 {
	c := 1 - d*d*d
	return c * c * c
}

// Evaluate interpolates the smoothed table at the normalized position x.
func (m *lowessModel) Evaluate(coeffs []float64, x float64) float64 {
	switch len(coeffs) {
	case 0:
		return 0
	case 1:
		return finiteOrFallback(coeffs[0], nil)
	}

	if math.IsNaN(x) {
		x = 0
	}
	pos := clamp(x, 0, 1) * float64(len(coeffs)-1)
	i := int(math.Floor(pos))
	if i >= len(coeffs)-1 {
		return finiteOrFallback(coeffs[len(coeffs)-1], coeffs)
	}
	frac := pos - float64(i)

	return finiteOrFallback(coeffs[i]+frac*(coeffs[i+1]-coeffs[i]), coeffs)
}

// tableStdDev is the RMS of y minus the smoothed table, sample by sample.
func tableStdDev(y, smoothed []float64) float64 {
	var sum float64
	for i := range y {
		r := y[i] - smoothed[i]
		sum += r * r
	}

	return sanitizeStdDev(math.Sqrt(sum/float64(len(y))), y)
}

func replaceNonFinite(dst, src []float64, substitute float64) {
	for i, v := range src {
		if isFinite(v) {
			dst[i] = v
		} else {
			dst[i] = substitute
		}
	}
}
