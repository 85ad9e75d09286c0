package channel

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/dadi156/calgo-sub000/regression"
)

// Calculator computes channels with one model instance.
type Calculator struct {
	cfg   Config
	model regression.Model
}

// NewCalculator creates a calculator. Extra options such as
// regression.WithLogger are passed to the model after the Config derived ones.
func NewCalculator(cfg Config, opts ...regression.Option) (*Calculator, error) {
	model, err := regression.New(cfg.Kind, cfg.Period, append(cfg.ModelOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}

	return &Calculator{cfg: cfg, model: model}, nil
}

// Config returns the calculator configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Model returns the underlying regression model.
func (c *Calculator) Model() regression.Model {
	return c.model
}

// Compute fits the last Period values (all values when Period <= 0) and
// returns the channel evaluated at every fitted position.
func (c *Calculator) Compute(values []float64) (*Channel, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	window := values
	if c.cfg.Period > 0 && len(values) > c.cfg.Period {
		window = values[len(values)-c.cfg.Period:]
	}
	n := len(window)

	x := positions(c.model.Kind(), n)
	res := c.model.Fit(x, window)

	ch := &Channel{
		Kind:         c.model.Kind(),
		Coefficients: res.Coefficients,
		StdDev:       res.StdDev,
		Path:         res.Path,
		Deviations:   c.cfg.deviations(),
		Values:       append([]float64(nil), window...),
		Center:       make([]float64, n),
		Upper:        make([]float64, n),
		Lower:        make([]float64, n),
		model:        c.model,
	}

	offset := ch.Deviations * ch.StdDev
	for i, xi := range x {
		center := c.model.Evaluate(res.Coefficients, xi)
		ch.Center[i] = center
		ch.Upper[i] = center + offset
		ch.Lower[i] = center - offset
	}

	return ch, nil
}

// positions returns the x coordinates of n samples. LOWESS tables are
// addressed by a normalized position, the other models by 1-based index.
func positions(kind regression.Kind, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		if kind == regression.KindLOWESS {
			if n > 1 {
				x[i] = float64(i) / float64(n-1)
			}
		} else {
			x[i] = float64(i + 1)
		}
	}

	return x
}

// Channel is a computed regression channel over a window of samples.
type Channel struct {
	Kind         regression.Kind
	Coefficients []float64
	StdDev       float64
	Path         regression.Path
	Deviations   float64

	// Values is the fitted window, oldest first.
	Values []float64
	// Center, Upper and Lower are aligned with Values.
	Center []float64
	Upper  []float64
	Lower  []float64

	model regression.Model
}

// Len returns the number of samples in the channel.
func (ch *Channel) Len() int {
	return len(ch.Center)
}

// At returns center, upper and lower at index i. Negative indexes count from the end.
func (ch *Channel) At(i int) (center, upper, lower float64) {
	if i < 0 {
		i += ch.Len()
	}

	return ch.Center[i], ch.Upper[i], ch.Lower[i]
}

// Project evaluates the channel steps samples past the last one. LOWESS
// channels cannot extrapolate and return the last smoothed value.
func (ch *Channel) Project(steps int) (center, upper, lower float64) {
	n := ch.Len()
	if n == 0 {
		return 0, 0, 0
	}

	var x float64
	if ch.Kind == regression.KindLOWESS {
		x = 1
	} else {
		x = float64(n + steps)
	}

	center = ch.model.Evaluate(ch.Coefficients, x)
	offset := ch.Deviations * ch.StdDev

	return center, center + offset, center - offset
}

// Width returns the distance between the bands.
func (ch *Channel) Width() float64 {
	return 2 * ch.Deviations * ch.StdDev
}

// Position locates price relative to the bands at the last sample: 0 is the
// lower band, 0.5 the center line and 1 the upper band.
func (ch *Channel) Position(price float64) float64 {
	if ch.Len() == 0 {
		return 0.5
	}
	_, upper, lower := ch.At(-1)
	width := upper - lower
	if width <= 0 {
		return 0.5
	}

	return (price - lower) / width
}

// ResidualStats summarizes the distance of each value from the center line.
type ResidualStats struct {
	Mean   float64
	StdDev float64
	Max    float64
	// Outside is the number of values beyond either band.
	Outside int
}

// Residuals computes ResidualStats for the fitted window.
func (ch *Channel) Residuals() (ResidualStats, error) {
	residuals := make(stats.Float64Data, len(ch.Values))
	var out ResidualStats
	for i, v := range ch.Values {
		residuals[i] = v - ch.Center[i]
		if v > ch.Upper[i] || v < ch.Lower[i] {
			out.Outside++
		}
	}

	var err error
	if out.Mean, err = residuals.Mean(); err != nil {
		return ResidualStats{}, fmt.Errorf("channel: residual mean: %w", err)
	}
	if out.StdDev, err = residuals.StandardDeviationPopulation(); err != nil {
		return ResidualStats{}, fmt.Errorf("channel: residual deviation: %w", err)
	}

	abs := make(stats.Float64Data, len(residuals))
	for i, r := range residuals {
		if r < 0 {
			r = -r
		}
		abs[i] = r
	}
	if out.Max, err = abs.Max(); err != nil {
		return ResidualStats{}, fmt.Errorf("channel: residual max: %w", err)
	}

	return out, nil
}
