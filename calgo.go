// Package calgo computes regression channels over price series.
//
// A channel is a center line fitted by one of eight regression models with
// upper and lower bands placed a number of residual standard deviations away.
// Every model is guarded: when the primary computation fails numerically it
// falls back to a normalized variant, and degenerate input still yields a
// finite result.
//
// # Core Features
//
//   - Linear, logarithmic, exponential, weighted, polynomial, simple moving
//     average, exponential moving average and LOWESS models
//   - Finite output for any input, with the evaluation path reported
//   - OHLCV bar loading from CSV with selectable price source
//   - Compact snapshot files (Gorilla values, delta-of-delta timestamps)
//     with optional Zstd, S2 or LZ4 compression
//
// # Basic Usage
//
// Fitting a channel over closing prices:
//
//	bars, _ := series.LoadCSV("btc_1h.csv")
//
//	cfg := channel.DefaultConfig()
//	cfg.Kind = regression.KindPolynomial
//	cfg.Period = 200
//
//	ch, _ := calgo.FitBars(bars, cfg, series.SourceClose)
//	center, upper, lower := ch.At(-1)
//
// Storing the channel:
//
//	data, _ := calgo.EncodeChannel("BTCUSDT:1h", bars, ch)
//	s, _ := snapshot.Decode(data)
//
// This package provides convenient top-level wrappers around the regression,
// channel and snapshot packages. For full control use those packages directly.
package calgo

import (
	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/internal/hash"
	"github.com/dadi156/calgo-sub000/regression"
	"github.com/dadi156/calgo-sub000/series"
	"github.com/dadi156/calgo-sub000/snapshot"
)

// NewModel creates a regression model by name, e.g. "linear" or "lowess".
//
// Returns regression.ErrUnsupportedKind for unknown names.
func NewModel(name string, period int, opts ...regression.Option) (regression.Model, error) {
	return regression.NewByName(name, period, opts...)
}

// Fit fits kind over values at positions 1..n and returns the raw result.
//
// Use this when only the coefficients and residual deviation are needed.
// For bands use NewChannel.
func Fit(kind regression.Kind, values []float64, opts ...regression.Option) (regression.Result, error) {
	model, err := regression.New(kind, len(values), opts...)
	if err != nil {
		return regression.Result{}, err
	}

	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i + 1)
	}

	return model.Fit(x, values), nil
}

// NewChannel computes a channel over the trailing cfg.Period values.
func NewChannel(cfg channel.Config, values []float64, opts ...regression.Option) (*channel.Channel, error) {
	calc, err := channel.NewCalculator(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return calc.Compute(values)
}

// FitBars computes a channel over the src price of bars.
func FitBars(bars []series.Bar, cfg channel.Config, src series.Source, opts ...regression.Option) (*channel.Channel, error) {
	return NewChannel(cfg, series.Values(bars, src), opts...)
}

// EncodeChannel stores ch, fitted over bars, as a snapshot named name.
func EncodeChannel(name string, bars []series.Bar, ch *channel.Channel, opts ...snapshot.Option) ([]byte, error) {
	s, err := snapshot.FromChannel(name, series.Timestamps(bars), ch)
	if err != nil {
		return nil, err
	}

	return snapshot.Encode(s, opts...)
}

// SeriesID returns the 64-bit identifier stored in snapshots for name.
func SeriesID(name string) uint64 {
	return hash.SeriesID(name)
}
