// Package config loads regchan settings from defaults, .env files, the
// environment and a YAML file.
//
// Later sources override earlier ones: defaults, then .env files, then the
// process environment, then YAML. Command line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/regression"
	"github.com/dadi156/calgo-sub000/series"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CALGO_"

// Config is the full regchan configuration.
type Config struct {
	Channel     channel.Config         `yaml:"channel"`
	Source      series.Source          `yaml:"source"`
	Compression format.CompressionType `yaml:"compression"`
	Input       string                 `yaml:"input"`
	Rows        int                    `yaml:"rows"`
	LogLevel    string                 `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Channel:     channel.DefaultConfig(),
		Source:      series.SourceClose,
		Compression: format.CompressionZstd,
		Rows:        20,
		LogLevel:    "info",
	}
}

// Load builds a Config. Missing envFiles are skipped; an empty path skips YAML.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return cfg, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]

		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

func readEnvFiles(files []string) (map[string]string, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return map[string]string{}, nil
	}

	env, err := godotenv.Read(existing...)
	if err != nil {
		return nil, fmt.Errorf("config: read env files: %w", err)
	}

	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	set := func(name string, apply func([]byte) error) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			if err := apply([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
			}
		}
	}

	set("KIND", c.Channel.Kind.UnmarshalText)
	set("PERIOD", setInt(&c.Channel.Period))
	set("DEGREE", setInt(&c.Channel.Degree))
	set("ALPHA", setFloat(&c.Channel.Alpha))
	set("BANDWIDTH", setFloat(&c.Channel.Bandwidth))
	set("ROBUST_ITERATIONS", setInt(&c.Channel.RobustIterations))
	set("DEVIATIONS", setFloat(&c.Channel.Deviations))
	set("SOURCE", c.Source.UnmarshalText)
	set("COMPRESSION", c.Compression.UnmarshalText)
	set("INPUT", setString(&c.Input))
	set("ROWS", setInt(&c.Rows))
	set("LOG_LEVEL", setString(&c.LogLevel))

	return errors.Join(errs...)
}

func setInt(dst *int) func([]byte) error {
	return func(v []byte) error {
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return err
		}
		*dst = n

		return nil
	}
}

func setFloat(dst *float64) func([]byte) error {
	return func(v []byte) error {
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return err
		}
		*dst = f

		return nil
	}
}

func setString(dst *string) func([]byte) error {
	return func(v []byte) error {
		*dst = string(v)
		return nil
	}
}

// Validate checks fields that cannot be corrected silently.
func (c Config) Validate() error {
	if !c.Channel.Kind.Valid() {
		return fmt.Errorf("config: %w: %d", regression.ErrUnsupportedKind, c.Channel.Kind)
	}
	if c.Channel.Period < 0 {
		return fmt.Errorf("config: negative period %d", c.Channel.Period)
	}
	if c.Rows < 0 {
		return fmt.Errorf("config: negative rows %d", c.Rows)
	}
	if !c.Compression.Valid() {
		return fmt.Errorf("config: invalid compression 0x%02x", uint8(c.Compression))
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel; an empty level means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: log level: %w", err)
	}

	return lvl, nil
}
