// Package regression fits trend models to windowed numeric samples and
// reports the coefficients plus the residual standard deviation needed to draw
// a regression channel (a center line with bands k standard deviations away).
//
// # Models
//
//   - Linear: y = intercept + slope*x
//   - Logarithmic: y = a + b*ln(x)
//   - Exponential: y = a*e^(b*x)
//   - Weighted: a line with weights growing towards the most recent sample
//   - Polynomial: y = c0 + c1*x + ... + cd*x^d, degree 1 to 5
//   - Moving: a line over the last period samples
//   - ExponentialMoving: a line over EMA-smoothed samples
//   - LOWESS: an outlier robust, locally weighted smoothing table
//
// # Usage
//
//	model, err := regression.New(regression.KindPolynomial, 100, regression.WithDegree(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := model.Fit(x, y)
//	center := model.Evaluate(res.Coefficients, x[len(x)-1])
//	upper := center + 2*res.StdDev
//
// # Failure Handling
//
// Fit never returns an error and never panics. Every model first runs a
// numerically protected computation. When an intermediate sum or coefficient
// becomes non-finite, the model recomputes on inputs normalized to [0, 1] and
// maps the result back; Result.Path reports which branch was taken. Too few
// samples yield a fixed degenerate result, and a vanishing denominator yields a
// flat line with StdDev set to DegenerateStdDev.
//
// Evaluate is total: short coefficient vectors and non-finite results fall back
// to the first coefficient, or 0 when that is not finite either.
//
// # Concurrency
//
// Models hold only immutable configuration and allocate their working arrays
// per call, so an instance may be reused across many Fit and Evaluate calls.
package regression
