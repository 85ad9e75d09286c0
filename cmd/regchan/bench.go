package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dadi156/calgo-sub000/regression"
)

type benchOptions struct {
	kinds      []string
	samples    int
	iterations int
	seed       uint64
}

type benchResult struct {
	kind      regression.Kind
	hist      *hdrhistogram.Histogram
	fallbacks int
}

func newBenchCommand(a *app) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure fit latency of each regression kind on a synthetic random walk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds, err := parseKinds(opts.kinds)
			if err != nil {
				return err
			}
			if opts.samples < 1 || opts.iterations < 1 {
				return fmt.Errorf("samples and iterations must be positive")
			}

			x, y := randomWalk(opts.samples, opts.seed)
			results := make([]benchResult, 0, len(kinds))
			for _, kind := range kinds {
				res, err := a.benchKind(kind, x, y, opts.iterations)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			renderBench(cmd.OutOrStdout(), results)

			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVar(&opts.kinds, "kinds", nil, "kinds to benchmark (default: all)")
	fs.IntVar(&opts.samples, "samples", 500, "samples per fit")
	fs.IntVar(&opts.iterations, "iterations", 1000, "fits per kind")
	fs.Uint64Var(&opts.seed, "seed", 1, "random walk seed")

	return cmd
}

func parseKinds(names []string) ([]regression.Kind, error) {
	if len(names) == 0 {
		return regression.Kinds(), nil
	}

	kinds := make([]regression.Kind, 0, len(names))
	for _, name := range names {
		var k regression.Kind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}

	return kinds, nil
}

// randomWalk returns positions 1..n and a price path starting at 100.
func randomWalk(n int, seed uint64) (x, y []float64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // synthetic data
	x = make([]float64, n)
	y = make([]float64, n)
	price := 100.0
	for i := range n {
		price += rng.NormFloat64()
		if price < 1 {
			price = 1
		}
		x[i] = float64(i + 1)
		y[i] = price
	}

	return x, y
}

func (a *app) benchKind(kind regression.Kind, x, y []float64, iterations int) (benchResult, error) {
	opts := append(a.cfg.Channel.ModelOptions(),
		regression.WithLogger(a.logger),
		regression.WithObserver(a.recorder),
	)
	model, err := regression.New(kind, len(x), opts...)
	if err != nil {
		return benchResult{}, err
	}

	// LOWESS expects positions on [0, 1].
	if kind == regression.KindLOWESS && len(x) > 1 {
		scaled := make([]float64, len(x))
		for i := range x {
			scaled[i] = float64(i) / float64(len(x)-1)
		}
		x = scaled
	}

	res := benchResult{kind: kind, hist: hdrhistogram.New(1, int64(10*time.Second), 3)}
	for range iterations {
		start := time.Now()
		out := model.Fit(x, y)
		if err := res.hist.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			a.logger.Warn().Err(err).Msg("latency out of histogram range")
		}
		if out.Path != regression.PathPrimary {
			res.fallbacks++
		}
	}
	a.logger.Debug().
		Str("kind", kind.String()).
		Int64("count", res.hist.TotalCount()).
		Msg("benchmark finished")

	return res, nil
}

func renderBench(w io.Writer, results []benchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Fits", "Mean", "P50", "P90", "P99", "Max", "Non-primary"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range results {
		table.Append([]string{
			r.kind.String(),
			strconv.FormatInt(r.hist.TotalCount(), 10),
			time.Duration(r.hist.Mean()).String(),
			time.Duration(r.hist.ValueAtQuantile(50)).String(),
			time.Duration(r.hist.ValueAtQuantile(90)).String(),
			time.Duration(r.hist.ValueAtQuantile(99)).String(),
			time.Duration(r.hist.Max()).String(),
			strconv.Itoa(r.fallbacks),
		})
	}
	table.Render()
}
