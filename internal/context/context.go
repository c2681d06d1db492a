// Package context implements the four EBCOT coding-context primitives:
// Zero Coding, Sign Coding, Magnitude Refinement Coding, and Run-Length
// Coding. Each maps a small neighborhood of per-coefficient significance
// state to one of the MQ coder's 19 context labels (0..18).
package context

import "github.com/pkg/errors"

// ErrInvalidOrientation is returned by ZeroCoding when given an
// orientation tag outside {LL, LH, HL, HH}.
var ErrInvalidOrientation = errors.New("context: invalid subband orientation")

// ErrInvalidRunLength is returned by RunLengthDecode when its two tail D
// symbols do not match any recognized run-length codeword.
var ErrInvalidRunLength = errors.New("context: invalid run-length codeword")

// ErrSignContextMismatch is returned by SignDecode when the context
// recovered from the neighborhood does not match the CX label read from
// the stream, which indicates a corrupted codestream.
var ErrSignContextMismatch = errors.New("context: sign context mismatch")

// Orientation is a subband's wavelet orientation tag, selecting which
// Zero-Coding sub-table applies.
type Orientation int

const (
	LL Orientation = iota
	LH
	HL
	HH
)

func (o Orientation) String() string {
	switch o {
	case LL:
		return "LL"
	case LH:
		return "LH"
	case HL:
		return "HL"
	case HH:
		return "HH"
	default:
		return "invalid"
	}
}

// Window is the 3x3 significance neighborhood centered on the current
// coefficient, after zero-padding the block boundary. Each field is 0 or
// 1: whether that neighbor's σ (significance) bit is set.
type Window struct {
	NW, N, NE byte
	W, E      byte
	SW, S, SE byte
}

// Sum8 returns the sum of all eight neighbor bits.
func (w Window) Sum8() int {
	return int(w.NW) + int(w.N) + int(w.NE) + int(w.W) + int(w.E) + int(w.SW) + int(w.S) + int(w.SE)
}
