// Package series holds OHLC bars and extracts the value series a channel is
// computed over.
package series

import (
	"fmt"
	"strings"
	"time"
)

// Bar is one OHLC period.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Source selects which price of a bar feeds the regression.
type Source int

const (
	SourceClose Source = iota
	SourceOpen
	SourceHigh
	SourceLow
	SourceHL2   // (high + low) / 2
	SourceHLC3  // (high + low + close) / 3
	SourceOHLC4 // (open + high + low + close) / 4
)

var sourceNames = map[Source]string{
	SourceClose: "close",
	SourceOpen:  "open",
	SourceHigh:  "high",
	SourceLow:   "low",
	SourceHL2:   "hl2",
	SourceHLC3:  "hlc3",
	SourceOHLC4: "ohlc4",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}

	return "unknown"
}

// ParseSource parses a source name; an empty name selects SourceClose.
func ParseSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SourceClose, nil
	}
	for s, n := range sourceNames {
		if n == name {
			return s, nil
		}
	}

	return 0, fmt.Errorf("series: unknown source %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Price returns the value of b selected by src.
func (b Bar) Price(src Source) float64 {
	switch src {
	case SourceOpen:
		return b.Open
	case SourceHigh:
		return b.High
	case SourceLow:
		return b.Low
	case SourceHL2:
		return (b.High + b.Low) / 2
	case SourceHLC3:
		return (b.High + b.Low + b.Close) / 3
	case SourceOHLC4:
		return (b.Open + b.High + b.Low + b.Close) / 4
	default:
		return b.Close
	}
}

// Values extracts one price per bar.
func Values(bars []Bar, src Source) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Price(src)
	}

	return out
}

// Timestamps returns the Unix second timestamps of bars.
func Timestamps(bars []Bar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Time.Unix()
	}

	return out
}

// Tail returns the last n bars, or all bars when n <= 0 or n >= len(bars).
func Tail(bars []Bar, n int) []Bar {
	if n <= 0 || n >= len(bars) {
		return bars
	}

	return bars[len(bars)-n:]
}
