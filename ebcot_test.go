package ebcot

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRandomTile(rng *rand.Rand, channels, depth, baseH, baseW int) *Tile {
	t := &Tile{Layers: make([]Layer, depth)}
	t.LL = NewSubband(baseH, baseW, channels)
	for i := range t.LL.Data {
		t.LL.Data[i] = int32(rng.Intn(255) - 127)
	}
	for l := 0; l < depth; l++ {
		t.Layers[l].LH = NewSubband(baseH, baseW, channels)
		t.Layers[l].HL = NewSubband(baseH, baseW, channels)
		t.Layers[l].HH = NewSubband(baseH, baseW, channels)
		for _, sb := range []Subband{t.Layers[l].LH, t.Layers[l].HL, t.Layers[l].HH} {
			for i := range sb.Data {
				sb.Data[i] = int32(rng.Intn(255) - 127)
			}
		}
	}
	return t
}

func subbandsEqual(a, b Subband) bool {
	if a.H != b.H || a.W != b.W || a.C != b.C {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

// tilesEqual compares every subband of a tile -- the LL band plus all
// (LH, HL, HH) detail bands at every layer -- not just LL.
func tilesEqual(a, b *Tile) bool {
	if !subbandsEqual(a.LL, b.LL) {
		return false
	}
	if len(a.Layers) != len(b.Layers) {
		return false
	}
	for i := range a.Layers {
		if !subbandsEqual(a.Layers[i].LH, b.Layers[i].LH) ||
			!subbandsEqual(a.Layers[i].HL, b.Layers[i].HL) ||
			!subbandsEqual(a.Layers[i].HH, b.Layers[i].HH) {
			return false
		}
	}
	return true
}

func TestConfigKMaxDerivation(t *testing.T) {
	cfg := Config{G: 2, Eb: 8}
	assert.Equal(t, 9, cfg.KMax())

	cfg = Config{G: 0, Eb: 0}
	assert.Equal(t, 0, cfg.KMax())
}

func TestEncodeTileDecodeTileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	orig := makeRandomTile(rng, 2, 2, 64, 64)

	tokens := EncodeTile(orig)
	got, truncated, err := DecodeTile(tokens, 2, 2)
	require.NoError(t, err)
	require.False(t, truncated)
	assert.True(t, tilesEqual(got, orig))
}

func TestEncodeBatchSequentialPreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tiles := make([]*Tile, 3)
	for i := range tiles {
		tiles[i] = makeRandomTile(rng, 1, 1, 64, 64)
	}
	cfg := DefaultConfig()
	cfg.Accelerated = false

	results, err := EncodeBatch(context.Background(), cfg, tiles, NewLogger())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, tl := range tiles {
		want := EncodeTile(tl)
		assert.Equal(t, want, results[i].Tokens)
	}
}

func TestEncodeBatchPooledMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tiles := make([]*Tile, 16)
	for i := range tiles {
		tiles[i] = makeRandomTile(rng, 1, 1, 64, 64)
	}
	cfg := DefaultConfig()
	cfg.Accelerated = true
	cfg.MinTaskNumber = 4
	cfg.MaxPoolSize = 4

	sequential := make([][]int, len(tiles))
	for i, tl := range tiles {
		sequential[i] = EncodeTile(tl)
	}

	pooled, err := EncodeBatch(context.Background(), cfg, tiles, NewLogger())
	require.NoError(t, err)
	require.Len(t, pooled, len(tiles))
	for i := range tiles {
		assert.Equal(t, sequential[i], pooled[i].Tokens, "tile %d diverged between sequential and pooled dispatch", i)
	}
}

func TestEncodeBatchRejectsEmpty(t *testing.T) {
	_, err := EncodeBatch(context.Background(), DefaultConfig(), nil, NewLogger())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestEncodeBatchCancellationWrapsSentinel(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	tiles := make([]*Tile, 8)
	for i := range tiles {
		tiles[i] = makeRandomTile(rng, 1, 1, 64, 64)
	}
	cfg := DefaultConfig()
	cfg.Accelerated = true
	cfg.MinTaskNumber = 2
	cfg.MaxPoolSize = 2

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EncodeBatch(ctx, cfg, tiles, NewLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchCancelled)
}

func TestDecodeBatchRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	tiles := make([]*Tile, 5)
	streams := make([][]int, 5)
	for i := range tiles {
		tiles[i] = makeRandomTile(rng, 1, 1, 64, 64)
		streams[i] = EncodeTile(tiles[i])
	}

	cfg := DefaultConfig()
	cfg.Accelerated = false

	results, err := DecodeBatch(context.Background(), cfg, streams, 1, 1, NewLogger())
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.True(t, tilesEqual(r.Tile, tiles[i]))
	}
}
