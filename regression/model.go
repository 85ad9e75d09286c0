package regression

import (
	"fmt"
	"strings"
)

// Kind identifies a regression model.
type Kind int

const (
	// KindLinear fits y = intercept + slope*x by ordinary least squares.
	KindLinear Kind = iota
	// KindLogarithmic fits y = a + b*ln(x).
	KindLogarithmic
	// KindExponential fits y = a*e^(b*x) through ln(y).
	KindExponential
	// KindWeighted fits a line with exponentially increasing sample weights.
	KindWeighted
	// KindPolynomial fits y = c0 + c1*x + ... + cd*x^d.
	KindPolynomial
	// KindMoving fits a line over the most recent period samples.
	KindMoving
	// KindExponentialMoving fits a line over EMA-smoothed samples.
	KindExponentialMoving
	// KindLOWESS computes a locally weighted, outlier robust smoothing table.
	// Its coefficients are the smoothed value at each sample, not model
	// parameters; Evaluate interpolates the table at x clamped to [0, 1].
	KindLOWESS
)

var kindNames = map[Kind]string{
	KindLinear:            "linear",
	KindLogarithmic:       "logarithmic",
	KindExponential:       "exponential",
	KindWeighted:          "weighted",
	KindPolynomial:        "polynomial",
	KindMoving:            "moving",
	KindExponentialMoving: "ema",
	KindLOWESS:            "lowess",
}

var kindFromString = map[string]Kind{
	"linear":             KindLinear,
	"logarithmic":        KindLogarithmic,
	"log":                KindLogarithmic,
	"exponential":        KindExponential,
	"exp":                KindExponential,
	"weighted":           KindWeighted,
	"polynomial":         KindPolynomial,
	"poly":               KindPolynomial,
	"moving":             KindMoving,
	"ema":                KindExponentialMoving,
	"exponential-moving": KindExponentialMoving,
	"lowess":             KindLOWESS,
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Valid reports whether k names one of the supported models.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// KindFromString returns the Kind for a name, ignoring case.
// Returns Kind(-1) for unknown names.
func KindFromString(name string) Kind {
	if k, ok := kindFromString[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}

	return Kind(-1)
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindLinear, KindLogarithmic, KindExponential, KindWeighted,
		KindPolynomial, KindMoving, KindExponentialMoving, KindLOWESS,
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed := KindFromString(string(text))
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, string(text))
	}
	*k = parsed

	return nil
}

// Path records which branch of a fit produced a Result.
type Path int

const (
	// PathPrimary is the numerically protected main computation.
	PathPrimary Path = iota
	// PathFallback is the normalized recomputation after the primary path overflowed.
	PathFallback
	// PathDegenerate is a flat line caused by a vanishing denominator.
	PathDegenerate
	// PathInsufficient is the fixed result for too few samples.
	PathInsufficient
)

var pathNames = map[Path]string{
	PathPrimary:      "primary",
	PathFallback:     "fallback",
	PathDegenerate:   "degenerate",
	PathInsufficient: "insufficient",
}

// String returns the name of the path.
func (p Path) String() string {
	if name, ok := pathNames[p]; ok {
		return name
	}

	return "unknown"
}

// Result holds the outcome of a single Fit.
type Result struct {
	// Coefficients are model specific; see the documentation of each Kind.
	Coefficients []float64
	// StdDev is the residual standard deviation, always finite and >= 0.
	StdDev float64
	// Path tells which computation produced the result.
	Path Path
}

// String returns a human readable representation of the result.
func (r Result) String() string {
	return fmt.Sprintf("Result{Coefficients: %v, StdDev: %.6g, Path: %s}", r.Coefficients, r.StdDev, r.Path)
}

// Model is the contract shared by every regression model.
//
// Coefficient layouts:
//   - Linear, Logarithmic, Weighted, Moving, ExponentialMoving: [intercept, slope]
//   - Exponential: [a, b] for a*e^(b*x)
//   - Polynomial: degree+1 power coefficients of raw x, lowest power first
//   - LOWESS: a dense table with one smoothed value per input sample. Evaluate
//     takes a normalized position in [0, 1] and interpolates the table.
//
// A Model holds only immutable configuration. Fit never fails: too few samples
// give a documented degenerate Result, and numeric trouble switches to a
// normalized fallback computation.
type Model interface {
	// Kind returns the model kind.
	Kind() Kind
	// MinSamples returns the smallest sample count for a non-degenerate fit.
	MinSamples() int
	// Fit computes coefficients and residual standard deviation for the samples.
	// When len(x) != len(y) the common prefix is used.
	Fit(x, y []float64) Result
	// Evaluate returns the model value at x. It is pure and total.
	Evaluate(coeffs []float64, x float64) float64
}
