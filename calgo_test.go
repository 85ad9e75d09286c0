package calgo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/regression"
	"github.com/dadi156/calgo-sub000/series"
	"github.com/dadi156/calgo-sub000/snapshot"
)

func testBars(n int) []series.Bar {
	bars := make([]series.Bar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 20 + 0.1*float64(i)
		bars[i] = series.Bar{Time: start.Add(time.Duration(i) * time.Minute), Open: c, High: c + 1, Low: c - 1, Close: c}
	}

	return bars
}

func TestNewModel(t *testing.T) {
	m, err := NewModel("LOWESS", 50)
	require.NoError(t, err)
	assert.Equal(t, regression.KindLOWESS, m.Kind())

	_, err = NewModel("spline", 50)
	require.ErrorIs(t, err, regression.ErrUnsupportedKind)
}

// TestFit verifies a perfect line is recovered at positions 1..n
func TestFit(t *testing.T) {
	res, err := Fit(regression.KindLinear, []float64{3, 5, 7, 9})
	require.NoError(t, err)
	require.Len(t, res.Coefficients, 2)
	assert.InDelta(t, 1, res.Coefficients[0], 1e-9)
	assert.InDelta(t, 2, res.Coefficients[1], 1e-9)

	_, err = Fit(regression.Kind(99), []float64{1, 2})
	require.Error(t, err)
}

func TestFitBarsAndEncode(t *testing.T) {
	bars := testBars(60)
	cfg := channel.DefaultConfig()
	cfg.Period = 40

	ch, err := FitBars(bars, cfg, series.SourceHL2)
	require.NoError(t, err)
	assert.Equal(t, 40, ch.Len())

	center, _, _ := ch.At(-1)
	assert.InDelta(t, bars[59].Close, center, 1e-6)

	data, err := EncodeChannel("demo", bars, ch, snapshot.WithCompression(format.CompressionNone))
	require.NoError(t, err)

	s, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Series)
	assert.Equal(t, bars[59].Time.Unix(), s.Timestamps[39])

	h, err := snapshot.ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, SeriesID("demo"), h.SeriesID)
}

func TestNewChannelEmpty(t *testing.T) {
	_, err := NewChannel(channel.DefaultConfig(), nil)
	require.ErrorIs(t, err, channel.ErrNoValues)
}
