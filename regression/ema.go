package regression

import (
	"time"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// smaWarmup is the number of leading samples smoothed by an expanding simple
// average on the fallback path, and the width of the substitute average.
const smaWarmup = 5

// emaModel presmooths y with an exponential moving average and fits a line
// over the last period smoothed points.
type emaModel struct {
	base
}

func (m *emaModel) MinSamples() int {
	return 2
}

func (m *emaModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	n := len(x)
	if n < m.MinSamples() || windowSize(m.cfg.Period, n) < m.MinSamples() {
		return m.finish(start, n, Result{Coefficients: []float64{0, 0}, Path: PathInsufficient})
	}

	return m.finish(start, n, m.fitOrFallback(x, y, m.tryProtected, m.fallback))
}

func (m *emaModel) tryProtected(x, y []float64) (Result, error) {
	s, release := pool.GetFloat64Slice(len(y))
	defer release()

	alpha := m.cfg.Alpha
	for i, v := range y {
		if i == 0 {
			s[i] = v
		} else {
			s[i] = alpha*v + (1-alpha)*s[i-1]
		}
		if !isFinite(s[i]) {
			return Result{}, errNumericOverflow
		}
	}

	w := windowSize(m.cfg.Period, len(x))

	return protectedLine(x[len(x)-w:], s[len(s)-w:], lastValue)
}

func (m *emaModel) fallback(x, y []float64) Result {
	s, release := pool.GetFloat64Slice(len(y))
	defer release()
	m.fallbackSmooth(s, y)

	w := windowSize(m.cfg.Period, len(x))

	return normalizedLine(x[len(x)-w:], s[len(s)-w:], lastValue)
}

// fallbackSmooth writes a conservative smoothing of y into s: an expanding
// simple average for the warmup samples, then an EMA at half the configured
// alpha. Non-finite intermediates are replaced by the mean of the finite
// inputs among the last smaWarmup samples.
func (m *emaModel) fallbackSmooth(s, y []float64) {
	alpha := max(m.cfg.Alpha/2, MinAlpha)

	var sum float64
	for i, v := range y {
		var next float64
		if i < smaWarmup {
			sum += v
			next = sum / float64(i+1)
		} else {
			next = alpha*v + (1-alpha)*s[i-1]
		}

		if !isFinite(next) {
			prev := 0.0
			if i > 0 {
				prev = s[i-1]
			}
			next = recentFiniteMean(y[max(0, i-smaWarmup+1):i+1], prev)
		}
		s[i] = next
	}
}

// recentFiniteMean averages the finite entries of window, returning prev when
// there are none or the average overflows.
func recentFiniteMean(window []float64, prev float64) float64 {
	var sum float64
	var n int
	for _, v := range window {
		if isFinite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return prev
	}
	avg := sum / float64(n)
	if !isFinite(avg) {
		return prev
	}

	return avg
}

func (m *emaModel) Evaluate(coeffs []float64, x float64) float64 {
	return evalLine(coeffs, x)
}
