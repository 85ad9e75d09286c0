package regression

import "time"

// linearModel fits y = intercept + slope*x.
type linearModel struct {
	base
}

func (m *linearModel) MinSamples() int {
	return 2
}

func (m *linearModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)

	return m.finish(start, len(x), m.fit(x, y))
}

func (m *linearModel) fit(x, y []float64) Result {
	if len(x) < m.MinSamples() {
		return Result{Coefficients: []float64{0, 0}, Path: PathInsufficient}
	}

	return m.fitOrFallback(x, y, m.tryProtected, m.fallback)
}

func (m *linearModel) tryProtected(x, y []float64) (Result, error) {
	return protectedLine(x, y, mean)
}

func (m *linearModel) fallback(x, y []float64) Result {
	return normalizedLine(x, y, mean)
}

func (m *linearModel) Evaluate(coeffs []float64, x float64) float64 {
	return evalLine(coeffs, x)
}
