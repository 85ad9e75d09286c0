package regression

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/dadi156/calgo-sub000/internal/options"
)

// Parameter bounds and defaults.
const (
	DefaultDegree           = 2
	MinDegree               = 1
	MaxDegree               = 5
	MinAlpha                = 0.01
	MaxAlpha                = 0.99
	DefaultBandwidth        = 0.3
	MinBandwidth            = 0.1
	MaxBandwidth            = 1.0
	DefaultRobustIterations = 2
	MinRobustIterations     = 1
	MaxRobustIterations     = 5

	// robustIterationCap bounds the LOWESS loop regardless of configuration.
	robustIterationCap = 10
)

// Observer receives one notification per completed Fit.
type Observer interface {
	ObserveFit(kind Kind, path Path, samples int, elapsed time.Duration)
}

// Config is the immutable configuration of a model instance.
type Config struct {
	Period           int
	Degree           int
	Alpha            float64
	Bandwidth        float64
	RobustIterations int
	Logger           zerolog.Logger
	Observer         Observer

	alphaSet bool
}

func defaultConfig(period int) Config {
	return Config{
		Period:           period,
		Degree:           DefaultDegree,
		Bandwidth:        DefaultBandwidth,
		RobustIterations: DefaultRobustIterations,
		Logger:           zerolog.Nop(),
	}
}

// resolve fills the period dependent defaults.
func (c *Config) resolve() {
	if !c.alphaSet {
		c.Alpha = DefaultAlpha(c.Period)
	}
}

// DefaultAlpha returns the EMA smoothing factor 2/(period+1), clamped to [MinAlpha, MaxAlpha].
func DefaultAlpha(period int) float64 {
	if period < 1 {
		return MaxAlpha
	}

	return clamp(2/float64(period+1), MinAlpha, MaxAlpha)
}

// Option configures a model at construction.
type Option = options.Option[*Config]

// WithDegree sets the polynomial degree, clamped to [MinDegree, MaxDegree].
func WithDegree(degree int) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Degree = min(max(degree, MinDegree), MaxDegree)
	})
}

// WithAlpha sets the EMA smoothing factor, clamped to [MinAlpha, MaxAlpha].
// A non-finite alpha keeps the period based default.
func WithAlpha(alpha float64) Option {
	return options.NoError(func(cfg *Config) {
		if math.IsNaN(alpha) {
			return
		}
		cfg.Alpha = clamp(alpha, MinAlpha, MaxAlpha)
		cfg.alphaSet = true
	})
}

// WithBandwidth sets the LOWESS bandwidth as a fraction of the x range,
// clamped to [MinBandwidth, MaxBandwidth].
func WithBandwidth(bandwidth float64) Option {
	return options.NoError(func(cfg *Config) {
		if math.IsNaN(bandwidth) {
			return
		}
		cfg.Bandwidth = clamp(bandwidth, MinBandwidth, MaxBandwidth)
	})
}

// WithRobustIterations sets the number of LOWESS passes,
// clamped to [MinRobustIterations, MaxRobustIterations].
func WithRobustIterations(n int) Option {
	return options.NoError(func(cfg *Config) {
		cfg.RobustIterations = min(max(n, MinRobustIterations), MaxRobustIterations)
	})
}

// WithLogger sets the logger used to report fallback activations.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Logger = logger
	})
}

// WithObserver registers an observer notified after every Fit.
func WithObserver(observer Observer) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Observer = observer
	})
}
