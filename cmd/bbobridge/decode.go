package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bft-labs/bbobridge/internal/adapters/storage"
	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/encode"
	"github.com/bft-labs/bbobridge/internal/latency"
)

// newDecodeCommand builds the decode subcommand. It reads 48-byte packets
// from a file (or stdin with "-"), prints each record in human-readable form
// and optionally archives decoded records to a SQLite database.
func newDecodeCommand(log *zerolog.Logger) *cobra.Command {
	var (
		archivePath   string
		priceScale    int
		clockPeriodNs int
		quiet         bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a framed packet stream back into quote records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var archive *storage.Archive
			if archivePath != "" {
				a, err := storage.Open(archivePath)
				if err != nil {
					return err
				}
				defer a.Close()
				archive = a
			}

			lat := latency.New(uint64(clockPeriodNs))
			out := cmd.OutOrStdout()

			var packets, badPackets uint64
			buf := make([]byte, domain.PacketSize)
			for {
				if _, err := io.ReadFull(in, buf); err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					if errors.Is(err, io.ErrUnexpectedEOF) {
						log.Warn().Msg("trailing partial packet ignored")
						break
					}
					return err
				}

				rec, err := encode.ParseRecord(buf)
				if err != nil {
					badPackets++
					log.Warn().Err(err).Uint64("packet", packets+badPackets).Msg("bad packet")
					continue
				}
				packets++

				lat.Observe(rec)

				latencyNs := uint64(rec.RoundTrip()) * uint64(clockPeriodNs)
				if !quiet {
					printRecord(out, rec, priceScale, latencyNs)
				}

				if archive != nil {
					if err := archive.SaveRecord(rec, latencyNs); err != nil {
						return fmt.Errorf("archive record: %w", err)
					}
				}
			}

			fmt.Fprintf(out, "%d packets decoded, %d bad\n", packets, badPackets)
			if lat.Samples() > 0 {
				fmt.Fprintf(out, "latency min/max/last: %d/%d/%d ns over %d samples\n",
					lat.MinNs(), lat.MaxNs(), lat.LastNs(), lat.Samples())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "SQLite database to append decoded records to")
	cmd.Flags().IntVar(&priceScale, "price-scale", 2, "decimal places implied by integer prices")
	cmd.Flags().IntVar(&clockPeriodNs, "clock-period-ns", latency.DefaultClockPeriodNs, "cycle clock period in nanoseconds")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-record output")

	return cmd
}

// printRecord renders one decoded record.
func printRecord(w io.Writer, rec domain.Record, priceScale int, latencyNs uint64) {
	bid := decimal.NewFromInt(int64(rec.BidPrice)).Shift(int32(-priceScale))
	ask := decimal.NewFromInt(int64(rec.AskPrice)).Shift(int32(-priceScale))
	spread := decimal.NewFromInt(int64(rec.Spread)).Shift(int32(-priceScale))

	fmt.Fprintf(w, "%-8s bid %s x%d  ask %s x%d  spread %s",
		rec.SymbolString(), bid, rec.BidSize, ask, rec.AskSize, spread)
	if latencyNs > 0 {
		fmt.Fprintf(w, "  latency %dns", latencyNs)
	}
	fmt.Fprintln(w)
}
