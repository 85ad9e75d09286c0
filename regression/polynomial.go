package regression

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

const (
	// tikhonovLambda is added to the diagonal of the normal matrix.
	tikhonovLambda = 1e-6
	// maxPolyCoefficient bounds every coefficient solved on normalized x.
	maxPolyCoefficient = 1e6
)

// polynomialModel fits y = c0 + c1*x + ... + cd*x^d.
//
// The system is built on x normalized to [0, 1], regularized, solved by LU
// decomposition with partial pivoting and expanded back to powers of raw x.
// A failed solve retries with degree d-1 and finally with a plain line.
type polynomialModel struct {
	base
	linear *linearModel
}

func (m *polynomialModel) MinSamples() int {
	return m.cfg.Degree + 1
}

func (m *polynomialModel) Fit(x, y []float64) Result {
	start := time.Now()
	x, y = alignSamples(x, y)
	degree := m.cfg.Degree
	if len(x) < m.MinSamples() {
		return m.finish(start, len(x), Result{Coefficients: make([]float64, degree+1), Path: PathInsufficient})
	}

	coeffs, err := m.solve(x, y, degree)
	if err == nil {
		return m.finish(start, len(x), Result{
			Coefficients: coeffs,
			StdDev:       residualStdDev(x, y, coeffs, m.Evaluate),
			Path:         PathPrimary,
		})
	}
	m.logFallback(err, len(x))

	return m.finish(start, len(x), m.fallback(x, y, degree))
}

// fallback retries with degree-1 and then with a line, zero padding the
// coefficients to degree+1 terms.
func (m *polynomialModel) fallback(x, y []float64, degree int) Result {
	out := make([]float64, degree+1)

	if degree > 1 {
		if coeffs, err := m.solve(x, y, degree-1); err == nil {
			copy(out, coeffs)
			return Result{
				Coefficients: out,
				StdDev:       residualStdDev(x, y, out, m.Evaluate),
				Path:         PathFallback,
			}
		}
	}

	res := m.linear.fit(x, y)
	copy(out, res.Coefficients)
	if res.Path == PathPrimary {
		res.Path = PathFallback
	}
	res.Coefficients = out

	return res
}

// solve fits a polynomial of the given degree and returns raw-x coefficients.
func (m *polynomialModel) solve(x, y []float64, degree int) ([]float64, error) {
	size := degree + 1
	sx := newScale(x)
	if sx.span == 0 {
		return nil, errSingular
	}

	xn, release := pool.GetFloat64Slice(len(x))
	defer release()
	sx.normalizeInto(xn, x)

	// Power sums sum(xn^k) for k in [0, 2*degree] and moments sum(xn^k * y).
	powerSums := make([]float64, 2*degree+1)
	moments := make([]float64, size)
	for i, v := range xn {
		p := 1.0
		for k := range powerSums {
			powerSums[k] += p
			if k < size {
				moments[k] += p * y[i]
			}
			p *= v
		}
	}
	if !allFinite(powerSums...) || !allFinite(moments...) {
		return nil, errNumericOverflow
	}

	normal := mat.NewDense(size, size, nil)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			normal.Set(r, c, powerSums[r+c])
		}
		normal.Set(r, r, normal.At(r, r)+tikhonovLambda)
	}

	var lu mat.LU
	lu.Factorize(normal)
	if lu.Det() == 0 {
		return nil, errSingular
	}

	var sol mat.VecDense
	if err := lu.SolveVecTo(&sol, false, mat.NewVecDense(size, moments)); err != nil {
		return nil, errSingular
	}

	normCoeffs := make([]float64, size)
	for i := range normCoeffs {
		v := sol.AtVec(i)
		if !isFinite(v) {
			return nil, errNumericOverflow
		}
		normCoeffs[i] = clamp(v, -maxPolyCoefficient, maxPolyCoefficient)
	}

	raw := expandNormalized(normCoeffs, sx)
	if !allFinite(raw...) {
		return nil, errNumericOverflow
	}

	return raw, nil
}

// expandNormalized rewrites sum(c_j * xn^j) with xn = (x - lo)/span as power
// coefficients of x using the binomial expansion of (s*x + t)^j.
func expandNormalized(coeffs []float64, sx scale) []float64 {
	s := 1 / sx.span
	t := -sx.lo / sx.span

	raw := make([]float64, len(coeffs))
	for j, c := range coeffs {
		for k := 0; k <= j; k++ {
			raw[k] += c * binomial(j, k) * math.Pow(s, float64(k)) * math.Pow(t, float64(j-k))
		}
	}

	return raw
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}

	return r
}

// Evaluate computes the polynomial at x with Horner's method. Coefficient
// vectors shorter than degree+1 evaluate to coeffs[0].
func (m *polynomialModel) Evaluate(coeffs []float64, x float64) float64 {
	if len(coeffs) < m.cfg.Degree+1 {
		return evalFallback(coeffs)
	}

	var y float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}

	return finiteOrFallback(y, coeffs)
}
