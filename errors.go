package ebcot

import "github.com/pkg/errors"

// Sentinel errors for the facade layer. The codec-core packages
// (mqcoder, context, bitplane, block, tile) declare and return their own
// sentinels, and DecodeBatch passes such an error through unchanged in
// that tile's TileResult.Err. The two below cover the batch call itself.
var (
	// ErrBatchCancelled is returned when a batch dispatch is cancelled
	// before every tile finishes encoding or decoding.
	ErrBatchCancelled = errors.New("ebcot: batch dispatch cancelled")

	// ErrEmptyBatch is returned when EncodeBatch or DecodeBatch is
	// called with zero tiles.
	ErrEmptyBatch = errors.New("ebcot: batch contains no tiles")
)
