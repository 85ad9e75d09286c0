package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadi156/calgo-sub000/series"
	"github.com/dadi156/calgo-sub000/snapshot"
)

func writeBars(t *testing.T, n int) string {
	t.Helper()

	bars := make([]series.Bar, n)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + 0.5*float64(i) + float64(i%3)
		bars[i] = series.Bar{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Open:  c - 0.2,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}

	path := filepath.Join(t.TempDir(), "bars.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, series.WriteCSV(f, bars))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error", "--env-file", ""}, args...))
	err := cmd.Execute()

	return out.String(), err
}

func TestKindsCommand(t *testing.T) {
	out, err := run(t, "kinds")
	require.NoError(t, err)
	for _, name := range []string{"linear", "polynomial", "ema", "lowess"} {
		assert.Contains(t, out, name)
	}
}

func TestFitCommand(t *testing.T) {
	input := writeBars(t, 40)
	metricsFile := filepath.Join(t.TempDir(), "calgo.prom")

	out, err := run(t, "fit", "--input", input, "--kind", "polynomial", "--period", "30",
		"--rows", "5", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "CENTER")
	assert.Contains(t, out, "kind=polynomial")
	assert.Contains(t, out, "2024-03-02 15:00:00")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `calgo_fits_total{kind="polynomial"`)
}

func TestFitCommandErrors(t *testing.T) {
	_, err := run(t, "fit")
	require.Error(t, err)

	_, err = run(t, "fit", "--input", writeBars(t, 10), "--kind", "spline")
	require.Error(t, err)
}

func TestSnapshotEncodeInspect(t *testing.T) {
	input := writeBars(t, 50)
	output := filepath.Join(t.TempDir(), "bars.rchn")

	out, err := run(t, "snapshot", "encode", "--input", input, "--kind", "lowess",
		"--compression", "s2", "--name", "demo", "--big-endian", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "50 rows")

	s, err := snapshot.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Series)
	assert.Equal(t, "lowess", s.Kind)

	out, err = run(t, "snapshot", "inspect", output, "--rows", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "series=demo")
	assert.Contains(t, out, "compression=s2")
	assert.Contains(t, out, "big_endian=true")
	assert.Equal(t, 1, strings.Count(out, "2024-03-03 01:00:00"))
}

func TestFitWritesSnapshot(t *testing.T) {
	input := writeBars(t, 25)
	output := filepath.Join(t.TempDir(), "fit.rchn")

	_, err := run(t, "fit", "--input", input, "--period", "10", "-o", output)
	require.NoError(t, err)

	s, err := snapshot.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, input, s.Series)
}

func TestBenchCommand(t *testing.T) {
	out, err := run(t, "bench", "--kinds", "linear,ema", "--samples", "50", "--iterations", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "linear")
	assert.Contains(t, out, "P99")

	_, err = run(t, "bench", "--iterations", "0")
	require.Error(t, err)
}

func TestSnapshotBundle(t *testing.T) {
	dir := t.TempDir()
	input := writeBars(t, 30)
	first := filepath.Join(dir, "a.rchn")
	second := filepath.Join(dir, "b.rchn")
	bundle := filepath.Join(dir, "set.rchs")

	_, err := run(t, "snapshot", "encode", "--input", input, "--name", "alpha", "-o", first)
	require.NoError(t, err)
	_, err = run(t, "snapshot", "encode", "--input", input, "--name", "beta", "--kind", "moving", "-o", second)
	require.NoError(t, err)

	out, err := run(t, "snapshot", "bundle", "-o", bundle, first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "2 series")

	out, err = run(t, "snapshot", "inspect", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "moving")

	_, err = run(t, "snapshot", "bundle", "-o", bundle, first, first)
	require.Error(t, err)
}
