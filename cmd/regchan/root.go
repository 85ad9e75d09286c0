package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/internal/config"
	"github.com/dadi156/calgo-sub000/internal/metrics"
	"github.com/dadi156/calgo-sub000/regression"
)

const version = "v0.3.0"

// app carries state shared by all subcommands after the root pre-run.
type app struct {
	configPath  string
	envFile     string
	metricsFile string

	cfg      config.Config
	logger   zerolog.Logger
	recorder *metrics.Recorder
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "regchan",
		Short:         "Regression channels over price series",
		Long:          "regchan fits linear, polynomial, moving average and LOWESS channels over OHLCV bars and stores them as compact snapshots.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.flushMetrics()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with CALGO_* variables, skipped when missing")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	addOverrideFlags(pf)

	root.AddCommand(
		newFitCommand(a),
		newBenchCommand(a),
		newSnapshotCommand(a),
		newKindsCommand(),
	)

	return root
}

// addOverrideFlags registers flags that take precedence over every config source.
func addOverrideFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.String("kind", "", "regression kind, see 'regchan kinds'")
	fs.Int("period", 0, "number of trailing samples to fit (0 fits all)")
	fs.Int("degree", 0, "polynomial degree")
	fs.Float64("alpha", 0, "EMA smoothing factor")
	fs.Float64("bandwidth", 0, "LOWESS bandwidth")
	fs.Int("robust-iterations", 0, "LOWESS passes")
	fs.Float64("deviations", 0, "band distance in standard deviations")
	fs.String("source", "", "bar price feeding the fit (close, open, high, low, hl2, hlc3, ohlc4)")
	fs.String("compression", "", "snapshot compression (none, zstd, s2, lz4)")
	fs.StringP("input", "i", "", "CSV file with time,open,high,low,close,volume columns")
	fs.Int("rows", 0, "number of trailing rows to print")
}

func applyOverrides(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "log-level":
			cfg.LogLevel = v
		case "kind":
			err = cfg.Channel.Kind.UnmarshalText([]byte(v))
		case "period":
			cfg.Channel.Period, err = fs.GetInt(f.Name)
		case "degree":
			cfg.Channel.Degree, err = fs.GetInt(f.Name)
		case "alpha":
			cfg.Channel.Alpha, err = fs.GetFloat64(f.Name)
		case "bandwidth":
			cfg.Channel.Bandwidth, err = fs.GetFloat64(f.Name)
		case "robust-iterations":
			cfg.Channel.RobustIterations, err = fs.GetInt(f.Name)
		case "deviations":
			cfg.Channel.Deviations, err = fs.GetFloat64(f.Name)
		case "source":
			err = cfg.Source.UnmarshalText([]byte(v))
		case "compression":
			err = cfg.Compression.UnmarshalText([]byte(v))
		case "input":
			cfg.Input = v
		case "rows":
			cfg.Rows, err = fs.GetInt(f.Name)
		}
		if err != nil {
			err = fmt.Errorf("--%s: %w", f.Name, err)
		}
	})
	if err != nil {
		return err
	}

	return cfg.Validate()
}

func (a *app) setup(fs *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	if err := applyOverrides(fs, &cfg); err != nil {
		return err
	}

	lvl, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log.Logger.Level(lvl)
	a.recorder = metrics.NewRecorder()
	a.logger.Debug().
		Str("kind", cfg.Channel.Kind.String()).
		Int("period", cfg.Channel.Period).
		Str("source", cfg.Source.String()).
		Msg("configuration loaded")

	return nil
}

func (a *app) flushMetrics() error {
	if a.metricsFile == "" || a.recorder == nil {
		return nil
	}
	if err := a.recorder.WriteTextfile(a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug().Str("path", a.metricsFile).Msg("metrics written")

	return nil
}

// calculator builds a channel calculator wired to the app logger and metrics.
func (a *app) calculator(cfg channel.Config) (*channel.Calculator, error) {
	return channel.NewCalculator(cfg,
		regression.WithLogger(a.logger),
		regression.WithObserver(a.recorder),
	)
}

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported regression kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range regression.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k.String())
			}

			return nil
		},
	}
}
