// Command ebcotctl is a small debug CLI around the ebcot facade: encode
// a gob-serialized coefficient tile to a token stream, decode one back,
// or benchmark a batch dispatch. It is not a JP2 box writer -- file
// format wrapping remains out of scope for this tool.
package main

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arielsw/ebcot"
)

var (
	channels int
	depth    int
	logFile  string
	logMaxMB int
)

func main() {
	root := &cobra.Command{
		Use:   "ebcotctl",
		Short: "Debug CLI for the ebcot Tier-1 codec",
	}
	root.PersistentFlags().IntVar(&channels, "channels", 1, "channel count for decode")
	root.PersistentFlags().IntVar(&depth, "depth", 1, "DWT depth for decode")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write structured logs to this rotating file instead of stderr")
	root.PersistentFlags().IntVar(&logMaxMB, "log-max-mb", 100, "rotate the log file after it reaches this size, in megabytes")

	root.AddCommand(encodeCmd(), decodeCmd(), benchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns a stderr logger, or a size-rotating file logger when
// --log-file was given.
func newLogger() zerolog.Logger {
	if logFile != "" {
		return ebcot.NewFileLogger(logFile, logMaxMB)
	}
	return ebcot.NewLogger()
}

func encodeCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a gob-serialized tile into a token stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			var t ebcot.Tile
			if err := gob.NewDecoder(f).Decode(&t); err != nil {
				return fmt.Errorf("decoding input tile: %w", err)
			}

			tokens := ebcot.EncodeTile(&t)
			logger.Info().Str("in", in).Str("out", out).Int("tokens", len(tokens)).Msg("encoded tile")

			outFile, err := os.Create(out)
			if err != nil {
				return err
			}
			defer outFile.Close()
			return gob.NewEncoder(outFile).Encode(tokens)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input gob file holding an ebcot.Tile")
	cmd.Flags().StringVar(&out, "out", "", "output gob file holding the token stream")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func decodeCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a token stream back into a tile",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			var tokens []int
			if err := gob.NewDecoder(f).Decode(&tokens); err != nil {
				return fmt.Errorf("decoding input token stream: %w", err)
			}

			t, truncated, err := ebcot.DecodeTile(tokens, channels, depth)
			if err != nil {
				return fmt.Errorf("decoding tile: %w", err)
			}
			logger.Info().Str("in", in).Str("out", out).Bool("truncated", truncated).Msg("decoded tile")
			if truncated {
				fmt.Fprintln(os.Stderr, "warning: decoded stream was truncated; some coefficients left at zero")
			}

			outFile, err := os.Create(out)
			if err != nil {
				return err
			}
			defer outFile.Close()
			return gob.NewEncoder(outFile).Encode(t)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input gob file holding a token stream")
	cmd.Flags().StringVar(&out, "out", "", "output gob file holding the decoded ebcot.Tile")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func benchCmd() *cobra.Command {
	var tiles, baseH, baseW int
	var accelerated bool
	var poolSize int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time batch encoding of synthetic tiles, sequentially or via the worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg := ebcot.DefaultConfig()
			cfg.Accelerated = accelerated
			cfg.MaxPoolSize = poolSize

			batch := make([]*ebcot.Tile, tiles)
			for i := range batch {
				batch[i] = &ebcot.Tile{LL: ebcot.NewSubband(baseH, baseW, 1)}
			}

			start := time.Now()
			results, err := ebcot.EncodeBatch(cmd.Context(), cfg, batch, logger)
			if err != nil {
				return err
			}
			fmt.Printf("encoded %d tiles in %s (accelerated=%v, pool_size=%d)\n", len(results), time.Since(start), accelerated, poolSize)
			return nil
		},
	}
	cmd.Flags().IntVar(&tiles, "tiles", 16, "number of synthetic tiles to encode")
	cmd.Flags().IntVar(&baseH, "height", 64, "tile height")
	cmd.Flags().IntVar(&baseW, "width", 64, "tile width")
	cmd.Flags().BoolVar(&accelerated, "accelerated", true, "dispatch via worker pool")
	cmd.Flags().IntVar(&poolSize, "pool-size", 4, "worker pool size when accelerated")
	return cmd
}
