package channel

import (
	"errors"
	"math"

	"github.com/dadi156/calgo-sub000/regression"
)

// DefaultDeviations is the band distance in standard deviations.
const DefaultDeviations = 2.0

// DefaultPeriod is the number of trailing samples fitted by default.
const DefaultPeriod = 100

// ErrNoValues is returned when Compute receives no samples.
var ErrNoValues = errors.New("channel: no values")

// Config describes how a channel is computed.
type Config struct {
	Kind             regression.Kind `yaml:"kind"`
	Period           int             `yaml:"period"`
	Degree           int             `yaml:"degree,omitempty"`
	Alpha            float64         `yaml:"alpha,omitempty"`
	Bandwidth        float64         `yaml:"bandwidth,omitempty"`
	RobustIterations int             `yaml:"robust_iterations,omitempty"`
	Deviations       float64         `yaml:"deviations"`
}

// DefaultConfig returns a linear channel over 100 samples with 2 deviation bands.
func DefaultConfig() Config {
	return Config{
		Kind:             regression.KindLinear,
		Period:           DefaultPeriod,
		Degree:           regression.DefaultDegree,
		Bandwidth:        regression.DefaultBandwidth,
		RobustIterations: regression.DefaultRobustIterations,
		Deviations:       DefaultDeviations,
	}
}

// ModelOptions translates the non-zero tuning fields into regression options.
func (c Config) ModelOptions() []regression.Option {
	var opts []regression.Option
	if c.Degree > 0 {
		opts = append(opts, regression.WithDegree(c.Degree))
	}
	if c.Alpha > 0 {
		opts = append(opts, regression.WithAlpha(c.Alpha))
	}
	if c.Bandwidth > 0 {
		opts = append(opts, regression.WithBandwidth(c.Bandwidth))
	}
	if c.RobustIterations > 0 {
		opts = append(opts, regression.WithRobustIterations(c.RobustIterations))
	}

	return opts
}

func (c Config) deviations() float64 {
	if c.Deviations <= 0 || math.IsNaN(c.Deviations) || math.IsInf(c.Deviations, 0) {
		return DefaultDeviations
	}

	return c.Deviations
}
