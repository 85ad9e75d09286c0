package regression

import "time"

// movingModel fits a line over the most recent period samples.
type movingModel struct {
	base
}

func (m *movingModel) MinSamples() int {
	return 2
}

// window returns the number of trailing samples used for n inputs.
func (m *movingModel) window(n int) int {
	return windowSize(m.cfg.Period, n)
}

func (m *movingModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	n := len(x)
	w := m.window(n)
	if w < m.MinSamples() {
		return m.finish(start, n, Result{Coefficients: []float64{0, 0}, Path: PathInsufficient})
	}

	xw, yw := x[n-w:], y[n-w:]

	return m.finish(start, n, m.fitOrFallback(xw, yw, m.tryProtected, m.fallback))
}

func (m *movingModel) tryProtected(x, y []float64) (Result, error) {
	return protectedLine(x, y, lastValue)
}

func (m *movingModel) fallback(x, y []float64) Result {
	return normalizedLine(x, y, lastValue)
}

func (m *movingModel) Evaluate(coeffs []float64, x float64) float64 {
	return evalLine(coeffs, x)
}

// windowSize clamps a period to the available samples; period <= 0 means all.
func windowSize(period, n int) int {
	if period <= 0 || period > n {
		return n
	}

	return period
}
