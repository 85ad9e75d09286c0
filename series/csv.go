package series

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// barDTO is the CSV row layout: time,open,high,low,close[,volume].
type barDTO struct {
	Time   string  `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

func (d *barDTO) toBar() (Bar, error) {
	t, err := parseTime(d.Time)
	if err != nil {
		return Bar{}, err
	}

	return Bar{Time: t, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}, nil
}

// parseTime accepts RFC 3339, "2006-01-02 15:04:05", "2006-01-02" and Unix seconds.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("series: cannot parse time %q", s)
}

// ReadCSV parses bars from CSV with a header row and returns them sorted by time.
func ReadCSV(r io.Reader) ([]Bar, error) {
	var rows []*barDTO
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("series: read csv: %w", err)
	}

	bars := make([]Bar, 0, len(rows))
	for i, row := range rows {
		b, err := row.toBar()
		if err != nil {
			return nil, fmt.Errorf("series: row %d: %w", i+1, err)
		}
		bars = append(bars, b)
	}
	slices.SortStableFunc(bars, func(a, b Bar) int {
		return a.Time.Compare(b.Time)
	})

	return bars, nil
}

// LoadCSV reads bars from a CSV file.
func LoadCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("series: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// WriteCSV writes bars with a header row, times in RFC 3339.
func WriteCSV(w io.Writer, bars []Bar) error {
	rows := make([]*barDTO, len(bars))
	for i, b := range bars {
		rows[i] = &barDTO{
			Time:   b.Time.UTC().Format(time.RFC3339),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("series: write csv: %w", err)
	}

	return nil
}
