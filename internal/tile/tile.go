// Package tile orchestrates the Block Codec across every subband of a
// wavelet-decomposed tile and every color channel, producing (and
// inverting) the single flat token stream that represents one tile.
package tile

import (
	"github.com/arielsw/ebcot/internal/block"
	"github.com/arielsw/ebcot/internal/context"
	"github.com/pkg/errors"
)

// ErrMissingTileDelimiter is returned when decode reaches the end of the
// token stream without finding the terminating DelimTile.
var ErrMissingTileDelimiter = errors.New("tile: missing DelimTile terminator")

// Subband is a 3-D (H, W, C) coefficient array, channel-minor: the
// coefficient at (row, col, c) lives at Data[(row*W+col)*C+c].
type Subband struct {
	H, W int
	C    int
	Data []int32
}

// NewSubband allocates a zeroed Subband of the given shape.
func NewSubband(h, w, c int) Subband {
	return Subband{H: h, W: w, C: c, Data: make([]int32, h*w*c)}
}

// Layer holds one DWT decomposition level's three detail subbands.
type Layer struct {
	LH, HL, HH Subband
}

// Tile is a full wavelet-decomposed tile: one LL subband plus D detail
// layers, all sharing the same channel count.
type Tile struct {
	LL     Subband
	Layers []Layer // length D, index 0 is the coarsest detail layer
}

func channelSlice(s Subband, c int) []int32 {
	out := make([]int32, s.H*s.W)
	for i := 0; i < s.H*s.W; i++ {
		out[i] = s.Data[i*s.C+c]
	}
	return out
}

func setChannelSlice(s Subband, c int, src []int32) {
	for i := 0; i < s.H*s.W; i++ {
		s.Data[i*s.C+c] = src[i]
	}
}

// Encode serializes t into a flat token stream: per channel (channel-major),
// the LL subband followed by each layer's (LH, HL, HH) triplet, then a
// single terminating DelimTile.
func Encode(t *Tile) []int {
	channels := t.LL.C
	var tokens []int
	for c := 0; c < channels; c++ {
		tokens = block.EncodeBand(tokens, channelSlice(t.LL, c), t.LL.H, t.LL.W, context.LL)
		for _, layer := range t.Layers {
			tokens = block.EncodeBand(tokens, channelSlice(layer.LH, c), layer.LH.H, layer.LH.W, context.LH)
			tokens = block.EncodeBand(tokens, channelSlice(layer.HL, c), layer.HL.H, layer.HL.W, context.HL)
			tokens = block.EncodeBand(tokens, channelSlice(layer.HH, c), layer.HH.H, layer.HH.W, context.HH)
		}
	}
	tokens = append(tokens, block.DelimTile)
	return tokens
}

// Decode inverts Encode. channels and depth must match the parameters the
// tile was encoded with -- the token stream itself carries no separate
// channel or depth count, only per-subband (H, W) prefixes.
func Decode(tokens []int, channels, depth int) (t *Tile, truncated bool, err error) {
	pos := 0
	t = &Tile{Layers: make([]Layer, depth)}

	for c := 0; c < channels; c++ {
		llChan, h, w, tr, newPos, e := block.DecodeBand(tokens, pos, context.LL)
		if e != nil {
			return nil, false, errors.Wrap(e, "decoding LL band")
		}
		truncated = truncated || tr
		pos = newPos
		if c == 0 {
			t.LL = NewSubband(h, w, channels)
		}
		setChannelSlice(t.LL, c, llChan)

		for l := 0; l < depth; l++ {
			lhChan, lhH, lhW, tr1, p1, e1 := block.DecodeBand(tokens, pos, context.LH)
			if e1 != nil {
				return nil, false, errors.Wrapf(e1, "decoding LH band, layer %d", l)
			}
			hlChan, hlH, hlW, tr2, p2, e2 := block.DecodeBand(tokens, p1, context.HL)
			if e2 != nil {
				return nil, false, errors.Wrapf(e2, "decoding HL band, layer %d", l)
			}
			hhChan, hhH, hhW, tr3, p3, e3 := block.DecodeBand(tokens, p2, context.HH)
			if e3 != nil {
				return nil, false, errors.Wrapf(e3, "decoding HH band, layer %d", l)
			}
			truncated = truncated || tr1 || tr2 || tr3
			pos = p3

			if c == 0 {
				t.Layers[l].LH = NewSubband(lhH, lhW, channels)
				t.Layers[l].HL = NewSubband(hlH, hlW, channels)
				t.Layers[l].HH = NewSubband(hhH, hhW, channels)
			}
			setChannelSlice(t.Layers[l].LH, c, lhChan)
			setChannelSlice(t.Layers[l].HL, c, hlChan)
			setChannelSlice(t.Layers[l].HH, c, hhChan)
		}
	}

	if pos >= len(tokens) || tokens[pos] != block.DelimTile {
		return nil, false, ErrMissingTileDelimiter
	}
	return t, truncated, nil
}
