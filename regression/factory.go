package regression

import (
	"fmt"
	"strings"
	"time"

	"github.com/dadi156/calgo-sub000/internal/options"
)

// New creates a model of the given kind.
//
// Parameters:
//   - kind: one of the supported kinds (see Kinds)
//   - period: window length for Moving and ExponentialMoving and the base of the
//     default EMA alpha. Period <= 0 means "all samples".
//   - opts: WithDegree, WithAlpha, WithBandwidth, WithRobustIterations, WithLogger, WithObserver
//
// Returns an error wrapping ErrUnsupportedKind for an unknown kind.
func New(kind Kind, period int, opts ...Option) (Model, error) {
	cfg := defaultConfig(period)
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.resolve()

	b := base{kind: kind, cfg: cfg}
	switch kind {
	case KindLinear:
		return &linearModel{base: b}, nil
	case KindLogarithmic:
		return &logarithmicModel{base: b}, nil
	case KindExponential:
		return &exponentialModel{base: b}, nil
	case KindWeighted:
		return &weightedModel{base: b}, nil
	case KindPolynomial:
		return &polynomialModel{base: b, linear: &linearModel{base: b}}, nil
	case KindMoving:
		return &movingModel{base: b}, nil
	case KindExponentialMoving:
		return &emaModel{base: b}, nil
	case KindLOWESS:
		return &lowessModel{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %d (supported: %s)", ErrUnsupportedKind, int(kind), supportedKinds())
	}
}

// NewByName creates a model from a kind name such as "linear" or "lowess".
func NewByName(name string, period int, opts ...Option) (Model, error) {
	kind := KindFromString(name)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedKind, name, supportedKinds())
	}

	return New(kind, period, opts...)
}

func supportedKinds() string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	return strings.Join(names, ", ")
}

// base carries the configuration and instrumentation shared by all models.
type base struct {
	kind Kind
	cfg  Config
}

// Kind returns the model kind.
func (b *base) Kind() Kind {
	return b.kind
}

// Config returns a copy of the resolved model configuration.
func (b *base) Config() Config {
	return b.cfg
}

func (b *base) logFallback(err error, samples int) {
	b.cfg.Logger.Debug().
		Err(err).
		Str("kind", b.kind.String()).
		Int("samples", samples).
		Msg("regression primary path failed, using fallback")
}

// finish reports a completed fit to the observer and returns res unchanged.
func (b *base) finish(start time.Time, samples int, res Result) Result {
	if res.Path != PathPrimary {
		b.cfg.Logger.Trace().
			Str("kind", b.kind.String()).
			Str("path", res.Path.String()).
			Int("samples", samples).
			Msg("regression fit")
	}
	if b.cfg.Observer != nil {
		b.cfg.Observer.ObserveFit(b.kind, res.Path, samples, time.Since(start))
	}

	return res
}

// fitOrFallback runs the protected computation and switches to the fallback on error.
func (b *base) fitOrFallback(x, y []float64, protected func(x, y []float64) (Result, error), fallback func(x, y []float64) Result) Result {
	res, err := protected(x, y)
	if err == nil {
		return res
	}
	b.logFallback(err, len(x))

	res = fallback(x, y)
	res.StdDev = sanitizeStdDev(res.StdDev, y)
	if res.Path == PathPrimary {
		res.Path = PathFallback
	}

	return res
}
