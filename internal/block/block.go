// Package block implements the Block Codec: partitioning a subband into
// fixed 64x64 code blocks, running the bitplane scan and MQ coder over
// each, and framing the result into the flat integer token stream the
// Tile Codec concatenates across subbands.
package block

import (
	"github.com/arielsw/ebcot/internal/bitplane"
	"github.com/arielsw/ebcot/internal/context"
	"github.com/arielsw/ebcot/internal/mqcoder"
	"github.com/pkg/errors"
)

// Size is the fixed code block edge length.
const Size = 64

// Reserved framing tokens, out-of-band of the 0..255 byte alphabet.
const (
	DelimBlock = 2048
	DelimRow   = 2049
	DelimBand  = 2050
	DelimTile  = 2051
)

// ErrMissingDelimiter is returned when decode expects a framing delimiter
// (DelimBlock, DelimRow, or DelimBand) and does not find one.
var ErrMissingDelimiter = errors.New("block: missing framing delimiter")

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// EncodeBand partitions an hSub x wSub subband (row-major coefficients)
// into 64x64 code blocks, entropy-codes each, and appends the framed
// token sequence -- prefixed by [hSub, wSub] and terminated by
// DelimBand -- to dst.
func EncodeBand(dst []int, coeffs []int32, hSub, wSub int, orient context.Orientation) []int {
	dst = append(dst, hSub, wSub)

	blockRows := ceilDiv(hSub, Size)
	blockCols := ceilDiv(wSub, Size)

	for br := 0; br < blockRows; br++ {
		for bc := 0; bc < blockCols; bc++ {
			blk := extractBlock(coeffs, hSub, wSub, br, bc)
			dst = encodeOneBlock(dst, blk, orient)
		}
		dst = append(dst, DelimRow)
	}
	dst = append(dst, DelimBand)
	return dst
}

func encodeOneBlock(dst []int, blk []int32, orient context.Orientation) []int {
	cx, d, planes := bitplane.EncodeBlock(blk, Size, Size, orient)

	enc := mqcoder.NewEncoder()
	for i := range cx {
		enc.Encode(cx[i], d[i])
	}
	stream := enc.Flush()

	dst = append(dst, cx...)
	dst = append(dst, DelimBlock)
	for _, b := range stream {
		dst = append(dst, int(b))
	}
	dst = append(dst, DelimBlock)
	dst = append(dst, planes)
	dst = append(dst, DelimBlock)
	return dst
}

// extractBlock copies a Size x Size workspace out of an hSub x wSub
// subband, zero-padding past the subband's edge.
func extractBlock(coeffs []int32, hSub, wSub, br, bc int) []int32 {
	blk := make([]int32, Size*Size)
	rowStart := br * Size
	colStart := bc * Size
	rowEnd := rowStart + Size
	if rowEnd > hSub {
		rowEnd = hSub
	}
	colEnd := colStart + Size
	if colEnd > wSub {
		colEnd = wSub
	}
	for row := rowStart; row < rowEnd; row++ {
		src := coeffs[row*wSub+colStart : row*wSub+colEnd]
		dst := blk[(row-rowStart)*Size : (row-rowStart)*Size+(colEnd-colStart)]
		copy(dst, src)
	}
	return blk
}

func insertBlock(dst []int32, hSub, wSub, br, bc int, blk []int32) {
	rowStart := br * Size
	colStart := bc * Size
	rowEnd := rowStart + Size
	if rowEnd > hSub {
		rowEnd = hSub
	}
	colEnd := colStart + Size
	if colEnd > wSub {
		colEnd = wSub
	}
	for row := rowStart; row < rowEnd; row++ {
		src := blk[(row-rowStart)*Size : (row-rowStart)*Size+(colEnd-colStart)]
		dst2 := dst[row*wSub+colStart : row*wSub+colEnd]
		copy(dst2, src)
	}
}

// tokenReader walks a framed token stream, reporting missing delimiters.
type tokenReader struct {
	tokens []int
	pos    int
}

func (r *tokenReader) readInt() (int, error) {
	if r.pos >= len(r.tokens) {
		return 0, errors.Wrap(ErrMissingDelimiter, "unexpected end of stream")
	}
	v := r.tokens[r.pos]
	r.pos++
	return v, nil
}

// readUntil consumes tokens up to (and including) the next occurrence of
// delim, returning the tokens before it.
func (r *tokenReader) readUntil(delim int) ([]int, error) {
	start := r.pos
	for r.pos < len(r.tokens) {
		if r.tokens[r.pos] == delim {
			out := r.tokens[start:r.pos]
			r.pos++
			return out, nil
		}
		r.pos++
	}
	return nil, errors.Wrapf(ErrMissingDelimiter, "expected delimiter %d", delim)
}

func (r *tokenReader) expect(delim int) error {
	v, err := r.readInt()
	if err != nil {
		return err
	}
	if v != delim {
		return errors.Wrapf(ErrMissingDelimiter, "expected delimiter %d, got %d", delim, v)
	}
	return nil
}

// DecodeBand inverts EncodeBand starting at tokens[pos]. It returns the
// reconstructed hSub x wSub subband, whether any block reported a
// truncated stream, and the position just past the consumed DelimBand.
func DecodeBand(tokens []int, pos int, orient context.Orientation) (coeffs []int32, hSub, wSub int, truncated bool, newPos int, err error) {
	r := &tokenReader{tokens: tokens, pos: pos}

	hSub, err = r.readInt()
	if err != nil {
		return nil, 0, 0, false, 0, err
	}
	wSub, err = r.readInt()
	if err != nil {
		return nil, 0, 0, false, 0, err
	}

	coeffs = make([]int32, hSub*wSub)
	blockRows := ceilDiv(hSub, Size)
	blockCols := ceilDiv(wSub, Size)

	for br := 0; br < blockRows; br++ {
		for bc := 0; bc < blockCols; bc++ {
			blk, blkTruncated, e := decodeOneBlock(r, orient)
			if e != nil {
				return nil, 0, 0, false, 0, e
			}
			truncated = truncated || blkTruncated
			insertBlock(coeffs, hSub, wSub, br, bc, blk)
		}
		if e := r.expect(DelimRow); e != nil {
			return nil, 0, 0, false, 0, e
		}
	}
	if e := r.expect(DelimBand); e != nil {
		return nil, 0, 0, false, 0, e
	}
	return coeffs, hSub, wSub, truncated, r.pos, nil
}

func decodeOneBlock(r *tokenReader, orient context.Orientation) ([]int32, bool, error) {
	cx, err := r.readUntil(DelimBlock)
	if err != nil {
		return nil, false, err
	}
	streamTokens, err := r.readUntil(DelimBlock)
	if err != nil {
		return nil, false, err
	}
	planeTokens, err := r.readUntil(DelimBlock)
	if err != nil {
		return nil, false, err
	}
	if len(planeTokens) != 1 {
		return nil, false, errors.Wrap(ErrMissingDelimiter, "malformed plane-count token")
	}
	planes := planeTokens[0]

	stream := make([]byte, len(streamTokens))
	for i, t := range streamTokens {
		stream[i] = byte(t)
	}

	dec := mqcoder.NewDecoder(stream)
	d := make([]int, len(cx))
	for i, c := range cx {
		d[i] = dec.Decode(c)
	}

	blk, truncated, err := bitplane.DecodeBlock(cx, d, Size, Size, planes, orient)
	if err != nil {
		return nil, false, err
	}
	return blk, truncated, nil
}
