package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/regression"
	"github.com/dadi156/calgo-sub000/series"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "calgo.yaml", `
channel:
  kind: lowess
  period: 60
  bandwidth: 0.5
  deviations: 1.5
source: hlc3
compression: lz4
input: bars.csv
rows: 5
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, regression.KindLOWESS, cfg.Channel.Kind)
	assert.Equal(t, 60, cfg.Channel.Period)
	assert.InDelta(t, 0.5, cfg.Channel.Bandwidth, 0)
	assert.InDelta(t, 1.5, cfg.Channel.Deviations, 0)
	assert.Equal(t, regression.DefaultRobustIterations, cfg.Channel.RobustIterations)
	assert.Equal(t, series.SourceHLC3, cfg.Source)
	assert.Equal(t, format.CompressionLZ4, cfg.Compression)
	assert.Equal(t, "bars.csv", cfg.Input)
	assert.Equal(t, 5, cfg.Rows)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoadEnvAndPrecedence(t *testing.T) {
	envFile := writeFile(t, ".env", "CALGO_KIND=ema\nCALGO_PERIOD=30\nCALGO_SOURCE=hl2\n")
	t.Setenv("CALGO_PERIOD", "40")

	cfg, err := Load("", envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, regression.KindExponentialMoving, cfg.Channel.Kind)
	assert.Equal(t, 40, cfg.Channel.Period, "process environment overrides .env")
	assert.Equal(t, series.SourceHL2, cfg.Source)

	yamlPath := writeFile(t, "calgo.yaml", "channel:\n  period: 50\n")
	cfg, err = Load(yamlPath, envFile)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Channel.Period, "YAML overrides environment")
	assert.Equal(t, regression.KindExponentialMoving, cfg.Channel.Kind)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("CALGO_PERIOD", "many")
		t.Setenv("CALGO_KIND", "spline")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CALGO_PERIOD")
		assert.ErrorIs(t, err, regression.ErrUnsupportedKind)
	})

	t.Run("missing yaml", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "channel: [1, 2\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("unknown compression", func(t *testing.T) {
		path := writeFile(t, "c.yaml", "compression: brotli\n")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Rows = -1
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "loud"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Channel.Kind = regression.Kind(42)
	require.ErrorIs(t, cfg.Validate(), regression.ErrUnsupportedKind)
}
