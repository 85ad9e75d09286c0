package regression

import (
	"bytes"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, kind Kind, period int, opts ...Option) Model {
	t.Helper()
	m, err := New(kind, period, opts...)
	require.NoError(t, err)

	return m
}

func TestLinearFit(t *testing.T) {
	m := mustNew(t, KindLinear, 10)

	t.Run("perfect line", func(t *testing.T) {
		res := m.Fit([]float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9})
		require.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 1.0, res.Coefficients[0], 1e-6)
		assert.InDelta(t, 2.0, res.Coefficients[1], 1e-6)
		assert.InDelta(t, 0.0, res.StdDev, 1e-9)
		assert.InDelta(t, 21.0, m.Evaluate(res.Coefficients, 10), 1e-9)
	})

	t.Run("constant x", func(t *testing.T) {
		y := []float64{1, 2, 3}
		res := m.Fit([]float64{5, 5, 5}, y)
		want, err := stats.Mean(y)
		require.NoError(t, err)

		assert.Equal(t, PathDegenerate, res.Path)
		assert.Equal(t, []float64{want, 0}, res.Coefficients)
		assert.Equal(t, DegenerateStdDev, res.StdDev)
	})

	t.Run("residual deviation", func(t *testing.T) {
		x := []float64{0, 1, 2, 3}
		y := []float64{1, 2, 1, 2}
		res := m.Fit(x, y)

		residuals := make([]float64, len(y))
		for i := range y {
			residuals[i] = y[i] - m.Evaluate(res.Coefficients, x[i])
		}
		var sum float64
		for _, r := range residuals {
			sum += r * r
		}
		assert.InDelta(t, math.Sqrt(sum/4), res.StdDev, 1e-12)
	})
}

func TestLogarithmicFit(t *testing.T) {
	m := mustNew(t, KindLogarithmic, 10)

	x := make([]float64, 10)
	y := make([]float64, 10)
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = 3 + 2*math.Log(x[i])
	}

	res := m.Fit(x, y)
	require.Equal(t, PathPrimary, res.Path)
	assert.InDelta(t, 3.0, res.Coefficients[0], 1e-6)
	assert.InDelta(t, 2.0, res.Coefficients[1], 1e-6)
	assert.InDelta(t, 5.0, m.Evaluate(res.Coefficients, math.E), 1e-6)
	assert.Less(t, res.StdDev, 1e-6)

	t.Run("negative x is treated as zero", func(t *testing.T) {
		assert.Equal(t, m.Evaluate(res.Coefficients, 0), m.Evaluate(res.Coefficients, -5))
	})
}

func TestExponentialFit(t *testing.T) {
	m := mustNew(t, KindExponential, 10)

	t.Run("exact curve", func(t *testing.T) {
		x := make([]float64, 10)
		y := make([]float64, 10)
		for i := range x {
			x[i] = float64(i)
			y[i] = 2 * math.Exp(0.5*x[i])
		}

		res := m.Fit(x, y)
		require.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 2.0, res.Coefficients[0], 1e-6)
		assert.InDelta(t, 0.5, res.Coefficients[1], 1e-9)
		assert.InDelta(t, 2*math.Exp(5), m.Evaluate(res.Coefficients, 10), 1e-4)
	})

	t.Run("non-positive values use fallback", func(t *testing.T) {
		x := []float64{0, 1, 2, 3, 4}
		y := []float64{-1, 0, 2, 4, 8}

		res := m.Fit(x, y)
		assert.Equal(t, PathFallback, res.Path)
		require.Len(t, res.Coefficients, 2)
		assert.True(t, allFinite(res.Coefficients...))
		assert.Greater(t, res.Coefficients[0], 0.0)
		assert.Greater(t, res.Coefficients[1], 0.0)
		assert.True(t, isFinite(res.StdDev))
		assert.GreaterOrEqual(t, res.StdDev, 0.0)
	})

	t.Run("constant x", func(t *testing.T) {
		res := m.Fit([]float64{2, 2, 2}, []float64{1, 2, 3})
		assert.Equal(t, PathDegenerate, res.Path)
		assert.Equal(t, []float64{2, 0}, res.Coefficients)
		assert.Equal(t, DegenerateStdDev, res.StdDev)
	})
}

func TestWeightedFit(t *testing.T) {
	m := mustNew(t, KindWeighted, 10)

	t.Run("perfect line", func(t *testing.T) {
		x := []float64{0, 1, 2, 3, 4, 5}
		y := []float64{1, 3, 5, 7, 9, 11}
		res := m.Fit(x, y)
		require.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 1.0, res.Coefficients[0], 1e-9)
		assert.InDelta(t, 2.0, res.Coefficients[1], 1e-9)
		assert.InDelta(t, 0.0, res.StdDev, 1e-9)
	})

	t.Run("recent samples dominate", func(t *testing.T) {
		x := []float64{0, 1, 2, 3, 4, 5, 6, 7}
		y := []float64{10, 0, 10, 0, 1, 2, 3, 4}

		weighted := m.Fit(x, y)
		plain := mustNew(t, KindLinear, 10).Fit(x, y)
		assert.Greater(t, weighted.Coefficients[1], plain.Coefficients[1])
	})

	t.Run("constant x", func(t *testing.T) {
		y := []float64{1, 2, 3}
		res := m.Fit([]float64{3, 3, 3}, y)

		w0, w1, w2 := 1.0, math.Exp(1.0/3), math.Exp(2.0/3)
		want := (w0*1 + w1*2 + w2*3) / (w0 + w1 + w2)
		assert.Equal(t, PathDegenerate, res.Path)
		assert.InDelta(t, want, res.Coefficients[0], 1e-12)
		assert.Zero(t, res.Coefficients[1])
		assert.Equal(t, DegenerateStdDev, res.StdDev)
	})
}

func TestMovingFit(t *testing.T) {
	t.Run("uses the last period samples", func(t *testing.T) {
		m := mustNew(t, KindMoving, 4)
		x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		y := []float64{100, -50, 30, 7, 9, 11, 12, 14, 16, 18}

		res := m.Fit(x, y)
		require.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 0.0, res.Coefficients[0], 1e-9)
		assert.InDelta(t, 2.0, res.Coefficients[1], 1e-9)
		assert.InDelta(t, 0.0, res.StdDev, 1e-9)
	})

	t.Run("period larger than samples", func(t *testing.T) {
		m := mustNew(t, KindMoving, 100)
		res := m.Fit([]float64{0, 1, 2}, []float64{1, 3, 5})
		assert.InDelta(t, 1.0, res.Coefficients[0], 1e-9)
		assert.InDelta(t, 2.0, res.Coefficients[1], 1e-9)
	})

	t.Run("window of one", func(t *testing.T) {
		m := mustNew(t, KindMoving, 1)
		res := m.Fit([]float64{0, 1, 2}, []float64{1, 3, 5})
		assert.Equal(t, PathInsufficient, res.Path)
		assert.Equal(t, []float64{0, 0}, res.Coefficients)
	})

	t.Run("constant x in window", func(t *testing.T) {
		m := mustNew(t, KindMoving, 3)
		res := m.Fit([]float64{1, 2, 3, 3, 3}, []float64{9, 9, 4, 5, 6})
		assert.Equal(t, PathDegenerate, res.Path)
		assert.Equal(t, []float64{6, 0}, res.Coefficients)
		assert.Equal(t, DegenerateStdDev, res.StdDev)
	})
}

func TestExponentialMovingFit(t *testing.T) {
	t.Run("constant input", func(t *testing.T) {
		m := mustNew(t, KindExponentialMoving, 5)
		x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		res := m.Fit(x, constant(len(x), 5))
		require.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 5.0, res.Coefficients[0], 1e-9)
		assert.InDelta(t, 0.0, res.Coefficients[1], 1e-9)
		assert.InDelta(t, 0.0, res.StdDev, 1e-9)
	})

	t.Run("rising input", func(t *testing.T) {
		m := mustNew(t, KindExponentialMoving, 10)
		x := make([]float64, 50)
		y := make([]float64, 50)
		for i := range x {
			x[i] = float64(i)
			y[i] = 2 * x[i]
		}
		res := m.Fit(x, y)
		assert.Equal(t, PathPrimary, res.Path)
		assert.InDelta(t, 2.0, res.Coefficients[1], 0.05)
	})

	t.Run("default alpha", func(t *testing.T) {
		tests := []struct {
			period int
			want   float64
		}{
			{9, 0.2},
			{1, 0.99},
			{0, 0.99},
			{1000, 0.01},
		}
		for _, tt := range tests {
			m := mustNew(t, KindExponentialMoving, tt.period).(*emaModel)
			assert.InDeltaf(t, tt.want, m.cfg.Alpha, 1e-12, "period %d", tt.period)
		}

		m := mustNew(t, KindExponentialMoving, 9, WithAlpha(0.5)).(*emaModel)
		assert.Equal(t, 0.5, m.cfg.Alpha)
	})

	t.Run("non-finite input uses fallback smoothing", func(t *testing.T) {
		m := mustNew(t, KindExponentialMoving, 0)
		x := []float64{0, 1, 2, 3, 4, 5, 6}
		y := []float64{1, 2, math.NaN(), 4, 5, 6, 7}

		res := m.Fit(x, y)
		assert.Equal(t, PathFallback, res.Path)
		assert.True(t, allFinite(res.Coefficients...))
		assert.Greater(t, res.Coefficients[1], 0.0)
	})
}

func TestFallbackSmooth(t *testing.T) {
	m := mustNew(t, KindExponentialMoving, 10, WithAlpha(0.4)).(*emaModel)
	y := []float64{1, 2, math.NaN(), 4, 5, 6, 7}
	s := make([]float64, len(y))

	m.fallbackSmooth(s, y)

	assert.InDelta(t, 1.0, s[0], 1e-12)
	assert.InDelta(t, 1.5, s[1], 1e-12)
	assert.InDelta(t, 1.5, s[2], 1e-12)
	assert.InDelta(t, 7.0/3, s[3], 1e-12)
	assert.InDelta(t, 3.0, s[4], 1e-12)
	assert.InDelta(t, 0.2*6+0.8*3, s[5], 1e-12)
	assert.InDelta(t, 0.2*7+0.8*s[5], s[6], 1e-12)
}

func TestOptionsClamp(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, cfg Config)
	}{
		{"degree high", WithDegree(9), func(t *testing.T, cfg Config) { assert.Equal(t, MaxDegree, cfg.Degree) }},
		{"degree low", WithDegree(0), func(t *testing.T, cfg Config) { assert.Equal(t, MinDegree, cfg.Degree) }},
		{"alpha high", WithAlpha(2), func(t *testing.T, cfg Config) { assert.Equal(t, MaxAlpha, cfg.Alpha) }},
		{"alpha low", WithAlpha(-1), func(t *testing.T, cfg Config) { assert.Equal(t, MinAlpha, cfg.Alpha) }},
		{"alpha nan", WithAlpha(math.NaN()), func(t *testing.T, cfg Config) { assert.InDelta(t, 2.0/21, cfg.Alpha, 1e-12) }},
		{"bandwidth high", WithBandwidth(5), func(t *testing.T, cfg Config) { assert.Equal(t, MaxBandwidth, cfg.Bandwidth) }},
		{"bandwidth low", WithBandwidth(0.01), func(t *testing.T, cfg Config) { assert.Equal(t, MinBandwidth, cfg.Bandwidth) }},
		{"robust high", WithRobustIterations(20), func(t *testing.T, cfg Config) { assert.Equal(t, MaxRobustIterations, cfg.RobustIterations) }},
		{"robust low", WithRobustIterations(0), func(t *testing.T, cfg Config) { assert.Equal(t, MinRobustIterations, cfg.RobustIterations) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustNew(t, KindLOWESS, 20, tt.opt).(*lowessModel)
			tt.check(t, m.cfg)
		})
	}
}

func TestDefaults(t *testing.T) {
	m := mustNew(t, KindLOWESS, 20).(*lowessModel)
	cfg := m.Config()
	assert.Equal(t, 20, cfg.Period)
	assert.Equal(t, DefaultDegree, cfg.Degree)
	assert.Equal(t, DefaultBandwidth, cfg.Bandwidth)
	assert.Equal(t, DefaultRobustIterations, cfg.RobustIterations)
	assert.InDelta(t, 2.0/21, cfg.Alpha, 1e-12)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

type observation struct {
	kind    Kind
	path    Path
	samples int
}

func (o *recordingObserver) ObserveFit(kind Kind, path Path, samples int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observation{kind: kind, path: path, samples: samples})
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	m := mustNew(t, KindLinear, 10, WithObserver(obs))

	m.Fit([]float64{0, 1, 2}, []float64{1, 2, 3})
	m.Fit([]float64{1}, []float64{1})
	m.Fit([]float64{4, 4}, []float64{1, 2})

	require.Len(t, obs.calls, 3)
	assert.Equal(t, observation{KindLinear, PathPrimary, 3}, obs.calls[0])
	assert.Equal(t, observation{KindLinear, PathInsufficient, 1}, obs.calls[1])
	assert.Equal(t, observation{KindLinear, PathDegenerate, 2}, obs.calls[2])
}

func TestFallbackIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	m := mustNew(t, KindLinear, 10, WithLogger(logger))

	res := m.Fit([]float64{0, 1, 2}, []float64{1e308, 1.5e308, 1.7e308})
	require.Equal(t, PathFallback, res.Path)
	assert.Contains(t, buf.String(), "using fallback")
	assert.Contains(t, buf.String(), `"kind":"linear"`)
}
