package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dadi156/calgo-sub000/compress"
	"github.com/dadi156/calgo-sub000/series"
	"github.com/dadi156/calgo-sub000/snapshot"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Encode and inspect channel snapshot files",
	}
	cmd.AddCommand(
		newSnapshotEncodeCommand(a),
		newSnapshotBundleCommand(a),
		newSnapshotInspectCommand(a),
	)

	return cmd
}

func newSnapshotEncodeCommand(a *app) *cobra.Command {
	var (
		output    string
		name      string
		bigEndian bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Fit the configured channel and write it as a snapshot",
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
			if name == "" {
				name = a.cfg.Input
			}

			s, err := snapshot.FromChannel(name, series.Timestamps(bars), ch)
			if err != nil {
				return err
			}
			opts := []snapshot.Option{snapshot.WithCompression(a.cfg.Compression)}
			if bigEndian {
				opts = append(opts, snapshot.WithBigEndian())
			}
			data, err := snapshot.Encode(s, opts...)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // snapshot files are not secret
				return fmt.Errorf("write snapshot: %w", err)
			}

			// 8 bytes per timestamp and 3 float64 columns.
			raw := s.Len() * 8 * 4
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d bytes (%.1f%% of %d raw)\n",
				output, s.Len(), len(data), 100*compress.Ratio(raw, len(data)), raw)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file to write")
	cmd.Flags().StringVar(&name, "name", "", "series name stored in the snapshot (default: input path)")
	cmd.Flags().BoolVar(&bigEndian, "big-endian", false, "write fixed-width fields big endian")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newSnapshotInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the header and trailing rows of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if snapshot.IsSet(data) {
				set, err := snapshot.DecodeSet(data)
				if err != nil {
					return err
				}
				renderSet(cmd.OutOrStdout(), set)

				return nil
			}

			h, err := snapshot.ReadHeader(data)
			if err != nil {
				return err
			}
			s, err := snapshot.Decode(data)
			if err != nil {
				return err
			}
			renderSnapshot(cmd.OutOrStdout(), s, h, a.cfg.Rows)

			return nil
		},
	}
}

func newSnapshotBundleCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "bundle FILE...",
		Short: "Combine snapshot files into one snapshot set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := snapshot.NewSet()
			for _, path := range args {
				s, err := snapshot.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := set.Add(s); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			if set.HasCollision() {
				a.logger.Warn().Msg("series id collision, lookups by id are ambiguous")
			}

			data, err := snapshot.EncodeSet(set, snapshot.WithCompression(a.cfg.Compression))
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // snapshot files are not secret
				return fmt.Errorf("write snapshot set: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d series, %d bytes\n", output, set.Len(), len(data))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot set file to write")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func renderSet(w io.Writer, set *snapshot.Set) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Series", "Kind", "Rows", "First", "Last", "StdDev"})
	for name, s := range set.All() {
		table.Append([]string{
			name,
			s.Kind,
			strconv.Itoa(s.Len()),
			time.Unix(s.Timestamps[0], 0).UTC().Format(time.DateTime),
			time.Unix(s.Timestamps[s.Len()-1], 0).UTC().Format(time.DateTime),
			formatFloat(s.StdDev),
		})
	}
	table.Render()
}

func renderSnapshot(w io.Writer, s *snapshot.Snapshot, h snapshot.Header, rows int) {
	fmt.Fprintf(w, "series=%s id=%016x kind=%s rows=%d deviations=%s stddev=%s\n",
		s.Series, h.SeriesID, s.Kind, s.Len(), formatFloat(s.Deviations), formatFloat(s.StdDev))
	fmt.Fprintf(w, "version=%d big_endian=%t compression=%s size=%d\n",
		h.Version, h.BigEndian, h.Compression, h.Size)

	start := 0
	if rows > 0 && rows < s.Len() {
		start = s.Len() - rows
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Lower", "Center", "Upper"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i := start; i < s.Len(); i++ {
		table.Append([]string{
			time.Unix(s.Timestamps[i], 0).UTC().Format(time.DateTime),
			formatFloat(s.Lower[i]),
			formatFloat(s.Center[i]),
			formatFloat(s.Upper[i]),
		})
	}
	table.Render()
}
