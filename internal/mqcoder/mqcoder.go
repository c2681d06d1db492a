// Package mqcoder implements the MQ binary arithmetic coder used by the
// bitplane pass engine: an adaptive coder over a fixed set of contexts,
// each with its own probability-estimation state, sharing one canonical
// 47-state transition table (see tables.go).
package mqcoder

import "github.com/pkg/errors"

// ErrTruncatedStream names the condition where the CX label count implies
// more symbols than the encoded byte stream can support. Nothing in this
// package returns it: Decode has no error result, and fill_lsb synthesizes
// 0xFF past end-of-stream per the standard's termination convention
// instead of failing.
var ErrTruncatedStream = errors.New("mqcoder: CX stream outran encoded bytes")

// Encoder is a single-use MQ arithmetic encoder. Each encoded block gets
// its own Encoder with a fresh context table, so adaptation never leaks
// between blocks (see the tile/block codec's per-block deep copy
// requirement).
type Encoder struct {
	a        uint32
	c        uint32
	t        int
	tReg     byte
	l        int32
	out      []byte
	contexts [NumContexts]cxState
}

// NewEncoder returns an Encoder ready to accept (context, decision) pairs.
func NewEncoder() *Encoder {
	return &Encoder{
		a:        0x8000,
		c:        0,
		t:        12,
		tReg:     0,
		l:        -1,
		contexts: newContexts(),
	}
}

// Encode codes one binary decision d (0 or 1) under context label cx.
func (e *Encoder) Encode(cx int, d int) {
	st := &e.contexts[cx]
	p := pet[st.state].qe
	expected := int(st.mps)

	e.a -= p
	if e.a < p {
		expected = 1 - expected
	}
	if d == expected {
		e.c += p
	} else {
		e.a = p
	}

	if e.a < 0x8000 {
		if d == int(st.mps) {
			st.state = pet[st.state].nextMPS
		} else {
			if pet[st.state].switchMPS {
				st.mps ^= 1
			}
			st.state = pet[st.state].nextLPS
		}
		for e.a < 0x8000 {
			e.a <<= 1
			e.c <<= 1
			e.t--
			if e.t == 0 {
				e.transferByte()
			}
		}
	}
}

// transferByte flushes completed high-order bits of c into the output
// buffer, handling bit-stuffing after an 0xFF byte and carry propagation.
func (e *Encoder) transferByte() {
	const (
		partialMask uint32 = 0x07F80000 // bits 26..19
		msbsMask    uint32 = 0x0FF00000 // bits 27..20
		carryMask   uint32 = 1 << 27
	)
	if e.tReg == 0xFF {
		e.putByte()
		e.tReg = byte((e.c & msbsMask) >> 20)
		e.c &^= msbsMask
		e.t = 7
	} else {
		e.tReg += byte((e.c & carryMask) >> 27)
		e.c ^= carryMask
		e.putByte()
		if e.tReg == 0xFF {
			e.tReg = byte((e.c & msbsMask) >> 20)
			e.c &^= msbsMask
			e.t = 7
		} else {
			e.tReg = byte((e.c & partialMask) >> 19)
			e.c &^= partialMask
			e.t = 8
		}
	}
}

func (e *Encoder) putByte() {
	if e.l >= 0 {
		e.out = append(e.out, e.tReg)
	}
	e.l++
}

// Flush terminates the bit stream, emitting any residual bits, and returns
// the finished byte sequence. The Encoder must not be reused afterwards.
func (e *Encoder) Flush() []byte {
	nbits := 27 - 15 - e.t
	e.c <<= uint(e.t)
	for nbits > 0 {
		e.transferByte()
		nbits -= e.t
		e.c <<= uint(e.t)
	}
	e.transferByte()
	return e.out
}

// Decoder is a single-use MQ arithmetic decoder, mirroring Encoder's
// per-block context lifetime.
type Decoder struct {
	a        uint32
	c        uint32
	t        int
	tReg     byte
	l        int32
	in       []byte
	contexts [NumContexts]cxState
}

// NewDecoder initializes a Decoder over the given encoded byte stream.
func NewDecoder(stream []byte) *Decoder {
	d := &Decoder{
		a:        0,
		c:        0,
		t:        0,
		tReg:     0,
		l:        0,
		in:       stream,
		contexts: newContexts(),
	}
	d.fillLSB()
	d.c <<= uint(d.t)
	d.fillLSB()
	d.c <<= 7
	d.t -= 7
	d.a = 0x8000
	return d
}

// fillLSB loads the next input byte (or synthesizes 0xFF past end of
// stream, or after a stuffed 0xFF byte followed by a byte > 0x8F) into the
// low end of c.
func (d *Decoder) fillLSB() {
	d.t = 8
	atEnd := int(d.l) >= len(d.in)
	if atEnd || (d.tReg == 0xFF && d.in[int(d.l)] > 0x8F) {
		d.c += 0xFF
		return
	}
	if d.tReg == 0xFF {
		d.t = 7
	}
	d.tReg = d.in[int(d.l)]
	d.l++
	d.c += uint32(d.tReg) << uint(8-d.t)
}

// Decode returns the next binary decision for context label cx.
func (d *Decoder) Decode(cx int) int {
	st := &d.contexts[cx]
	p := pet[st.state].qe
	expected := int(st.mps)

	d.a -= p
	if d.a < p {
		expected = 1 - expected
	}

	const activeMask uint32 = 0x00FFFF00
	cActive := (d.c & activeMask) >> 8

	var symbol int
	if cActive < p {
		symbol = 1 - expected
		d.a = p
	} else {
		symbol = expected
		temp := cActive - p
		d.c &^= activeMask
		d.c += (temp << 8) & activeMask
	}

	if d.a < 0x8000 {
		if symbol == int(st.mps) {
			st.state = pet[st.state].nextMPS
		} else {
			if pet[st.state].switchMPS {
				st.mps ^= 1
			}
			st.state = pet[st.state].nextLPS
		}
		for d.a < 0x8000 {
			if d.t == 0 {
				d.fillLSB()
			}
			d.a <<= 1
			d.c <<= 1
			d.t--
		}
	}
	return symbol
}
