// Package ebcot implements EBCOT (Embedded Block Coding with Optimized
// Truncation) Tier-1 entropy coding for JPEG 2000: the MQ arithmetic
// coder, the four coding-context primitives, the three-pass bitplane
// scan, and the block/tile framing built on top of them.
//
// The facade in this file is the batch entry point: it dispatches a
// list of independent tiles across a worker pool when configured to do
// so, and otherwise runs them sequentially.
package ebcot

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arielsw/ebcot/internal/tile"
)

// Tile, Subband, and Layer re-export the internal tile package's types
// at the module boundary so callers never need to import internal/tile
// directly.
type (
	Tile    = tile.Tile
	Subband = tile.Subband
	Layer   = tile.Layer
)

// NewSubband allocates a zeroed (H, W, C) coefficient array.
func NewSubband(h, w, channels int) Subband {
	return tile.NewSubband(h, w, channels)
}

// EncodeTile serializes a single tile into its flat token stream.
func EncodeTile(t *Tile) []int {
	return tile.Encode(t)
}

// DecodeTile inverts EncodeTile. channels and depth must match the
// values the tile was encoded with.
func DecodeTile(tokens []int, channels, depth int) (t *Tile, truncated bool, err error) {
	return tile.Decode(tokens, channels, depth)
}

// TileResult is one tile's outcome from a batch call.
type TileResult struct {
	Tokens    []int
	Tile      *Tile
	Truncated bool
	Err       error
}

// EncodeBatch encodes every tile in tiles, preserving input order in the
// result slice. When cfg.Accelerated is true and len(tiles) is at least
// cfg.MinTaskNumber, the tiles are dispatched across a worker pool of
// width min(len(tiles), cfg.MaxPoolSize) via errgroup; otherwise they
// are encoded sequentially in the calling goroutine. Tiles are pure
// with respect to each other: no mutable state is shared between
// workers.
func EncodeBatch(ctx context.Context, cfg Config, tiles []*Tile, logger zerolog.Logger) ([]TileResult, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyBatch
	}

	batchID := uuid.New()
	results := make([]TileResult, len(tiles))

	if !cfg.Accelerated || len(tiles) < cfg.MinTaskNumber {
		logger.Debug().Str("batch_id", batchID.String()).Int("tiles", len(tiles)).Msg("encoding batch sequentially")
		for i, t := range tiles {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(ErrBatchCancelled, err.Error())
			}
			results[i].Tokens = EncodeTile(t)
		}
		return results, nil
	}

	poolSize := min(len(tiles), cfg.MaxPoolSize)
	logger.Debug().Str("batch_id", batchID.String()).Int("tiles", len(tiles)).Int("pool_size", poolSize).Msg("encoding batch via worker pool")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)
	for i, t := range tiles {
		i, t := i, t
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i].Tokens = EncodeTile(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Str("batch_id", batchID.String()).Err(err).Msg("batch encode cancelled")
		return nil, errors.Wrap(ErrBatchCancelled, err.Error())
	}
	return results, nil
}

// DecodeBatch is EncodeBatch's inverse: it decodes every token stream in
// streams, preserving input order, with the same sequential/pooled
// dispatch policy. A per-tile decode error is attached to that tile's
// TileResult.Err rather than aborting the whole batch, since tiles are
// independent.
func DecodeBatch(ctx context.Context, cfg Config, streams [][]int, channels, depth int, logger zerolog.Logger) ([]TileResult, error) {
	if len(streams) == 0 {
		return nil, ErrEmptyBatch
	}

	batchID := uuid.New()
	results := make([]TileResult, len(streams))

	decodeOne := func(i int) {
		t, truncated, err := DecodeTile(streams[i], channels, depth)
		results[i] = TileResult{Tile: t, Truncated: truncated, Err: err}
	}

	if !cfg.Accelerated || len(streams) < cfg.MinTaskNumber {
		logger.Debug().Str("batch_id", batchID.String()).Int("tiles", len(streams)).Msg("decoding batch sequentially")
		for i := range streams {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(ErrBatchCancelled, err.Error())
			}
			decodeOne(i)
		}
		return results, nil
	}

	poolSize := min(len(streams), cfg.MaxPoolSize)
	logger.Debug().Str("batch_id", batchID.String()).Int("tiles", len(streams)).Int("pool_size", poolSize).Msg("decoding batch via worker pool")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)
	for i := range streams {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			decodeOne(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Str("batch_id", batchID.String()).Err(err).Msg("batch decode cancelled")
		return nil, errors.Wrap(ErrBatchCancelled, err.Error())
	}
	return results, nil
}
