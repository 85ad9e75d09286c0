package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/series"
	"github.com/dadi156/calgo-sub000/snapshot"
)

func newFitCommand(a *app) *cobra.Command {
	var (
		snapshotPath string
		name         string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a channel over a CSV of bars and print the trailing rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Input == "" {
				return errors.New("no input: set --input, CALGO_INPUT or input in the config file")
			}

			bars, err := series.LoadCSV(a.cfg.Input)
			if err != nil {
				return err
			}

			ch, err := a.fit(bars)
			if err != nil {
				return err
			}
			renderChannel(cmd.OutOrStdout(), bars, ch, a.cfg.Source, a.cfg.Rows)

			if snapshotPath == "" {
				return nil
			}
			if name == "" {
				name = a.cfg.Input
			}

			return a.writeSnapshot(snapshotPath, name, series.Timestamps(bars), ch)
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "o", "", "also store the channel as a snapshot file")
	cmd.Flags().StringVar(&name, "name", "", "series name stored in the snapshot (default: input path)")

	return cmd
}

func (a *app) fit(bars []series.Bar) (*channel.Channel, error) {
	calc, err := a.calculator(a.cfg.Channel)
	if err != nil {
		return nil, err
	}

	ch, err := calc.Compute(series.Values(bars, a.cfg.Source))
	if err != nil {
		return nil, err
	}
	a.logger.Info().
		Str("kind", ch.Kind.String()).
		Str("path", ch.Path.String()).
		Int("bars", len(bars)).
		Int("window", ch.Len()).
		Float64("stddev", ch.StdDev).
		Msg("channel fitted")

	return ch, nil
}

func (a *app) writeSnapshot(path, name string, timestamps []int64, ch *channel.Channel) error {
	s, err := snapshot.FromChannel(name, timestamps, ch)
	if err != nil {
		return err
	}
	if err := snapshot.WriteFile(path, s, snapshot.WithCompression(a.cfg.Compression)); err != nil {
		return err
	}
	a.logger.Info().
		Str("path", path).
		Str("compression", a.cfg.Compression.String()).
		Int("rows", s.Len()).
		Msg("snapshot written")

	return nil
}

func renderChannel(w io.Writer, bars []series.Bar, ch *channel.Channel, src series.Source, rows int) {
	offset := len(bars) - ch.Len()
	start := 0
	if rows > 0 && rows < ch.Len() {
		start = ch.Len() - rows
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", src.String(), "Lower", "Center", "Upper", "Position"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i := start; i < ch.Len(); i++ {
		bar := bars[offset+i]
		center, upper, lower := ch.At(i)
		table.Append([]string{
			bar.Time.UTC().Format(time.DateTime),
			formatFloat(ch.Values[i]),
			formatFloat(lower),
			formatFloat(center),
			formatFloat(upper),
			strconv.FormatFloat(positionAt(ch.Values[i], lower, upper), 'f', 2, 64),
		})
	}
	table.Render()

	fmt.Fprintf(w, "kind=%s path=%s stddev=%s coefficients=%v\n",
		ch.Kind, ch.Path, formatFloat(ch.StdDev), ch.Coefficients)
	if stats, err := ch.Residuals(); err == nil {
		fmt.Fprintf(w, "residuals: mean=%s stddev=%s max=%s outside=%d\n",
			formatFloat(stats.Mean), formatFloat(stats.StdDev), formatFloat(stats.Max), stats.Outside)
	}
}

// positionAt maps price onto the band: 0 at lower, 1 at upper.
func positionAt(price, lower, upper float64) float64 {
	if upper == lower {
		return 0.5
	}

	return (price - lower) / (upper - lower)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
