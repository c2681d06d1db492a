// Package bitplane implements the three-pass bitplane scan engine
// (Significance Propagation, Magnitude Refinement, Cleanup) that walks a
// code block's coefficient bitplanes and produces the interleaved (CX, D)
// symbol stream the MQ coder consumes, plus its inverse.
package bitplane

import (
	"github.com/arielsw/ebcot/internal/context"
	"github.com/pkg/errors"
)

// ErrMalformedWindow names a context-primitive neighborhood of the wrong
// shape. Nothing in this package returns it: context.Window is always a
// full 3x3 neighborhood, and the scan engine builds every window itself.
var ErrMalformedWindow = errors.New("bitplane: malformed 3x3 neighborhood")

// state holds the three per-block surfaces (σ, σ′, η) and the sign
// matrix, all scoped to one block. sigma is stored zero-padded by one
// cell on every side so 3x3 and wider neighborhoods never need bounds
// checks.
type state struct {
	h, w        int
	orient      context.Orientation
	sigmaStride int
	sigma       []byte // (h+2) x (w+2), padded
	sigmaPrime  []byte // h x w
	eta         []byte // h x w
	signs       []byte // h x w
}

func newState(h, w int, orient context.Orientation) *state {
	stride := w + 2
	return &state{
		h: h, w: w, orient: orient,
		sigmaStride: stride,
		sigma:       make([]byte, (h+2)*stride),
		sigmaPrime:  make([]byte, h*w),
		eta:         make([]byte, h*w),
		signs:       make([]byte, h*w),
	}
}

func (s *state) padIdx(row, col int) int {
	return row*s.sigmaStride + col
}

// sig returns σ at original coordinate (row, col), 0-based.
func (s *state) sig(row, col int) byte {
	return s.sigma[s.padIdx(row+1, col+1)]
}

func (s *state) setSig(row, col int) {
	s.sigma[s.padIdx(row+1, col+1)] = 1
}

func (s *state) flat(row, col int) int {
	return row*s.w + col
}

// window returns the 3x3 σ neighborhood centered on (row, col).
func (s *state) window(row, col int) context.Window {
	r, c := row+1, col+1
	return context.Window{
		NW: s.sigma[s.padIdx(r-1, c-1)], N: s.sigma[s.padIdx(r-1, c)], NE: s.sigma[s.padIdx(r-1, c+1)],
		W: s.sigma[s.padIdx(r, c-1)], E: s.sigma[s.padIdx(r, c+1)],
		SW: s.sigma[s.padIdx(r+1, c-1)], S: s.sigma[s.padIdx(r+1, c)], SE: s.sigma[s.padIdx(r+1, c+1)],
	}
}

// resetEta clears the coded-this-plane surface at the start of a new
// bitplane.
func (s *state) resetEta() {
	for i := range s.eta {
		s.eta[i] = 0
	}
}

// cleanupClear reports whether the 4-row column at (row, col) and its
// surrounding region are entirely uncoded: a 6-row x 3-column σ window
// (one row of slack above and below the 4-row stripe) plus the column's
// own η values. This mirrors the reference implementation's over-inclusive
// test rather than a strict 8-neighbor check -- see the design note on
// Cleanup row accounting.
func (s *state) cleanupClear(row, col int) bool {
	sum := 0
	for r := row; r <= row+5; r++ {
		for c := col; c <= col+2; c++ {
			sum += int(s.sigma[s.padIdx(r, c)])
		}
	}
	for r := row; r < row+4; r++ {
		sum += int(s.eta[s.flat(r, col)])
	}
	return sum == 0
}

// rounds returns the number of 4-row stripes in an h-row block.
func rounds(h int) int {
	return h / 4
}

// numPlanes computes the bitplane count for a block whose coefficients'
// absolute values are at most maxAbs. An all-zero block still gets one
// plane (matching the reference source's off-by-one on log2(0)), so the
// Cleanup pass still has a chance to emit its run-length shortcut.
func numPlanes(maxAbs uint32) int {
	if maxAbs == 0 {
		return 1
	}
	n := 0
	for maxAbs > 0 {
		n++
		maxAbs >>= 1
	}
	return n
}

func abs32(v int32) uint32 {
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}

func planeBit(coeff int32, shift int) byte {
	return byte((abs32(coeff) >> uint(shift)) & 1)
}
