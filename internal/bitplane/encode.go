package bitplane

import "github.com/arielsw/ebcot/internal/context"

// emitter accumulates the (CX, D) stream produced by the three passes.
type emitter struct {
	cx []int
	d  []int
}

func (e *emitter) emit(cx, d int) {
	e.cx = append(e.cx, cx)
	e.d = append(e.d, d)
}

// EncodeBlock runs the three-pass bitplane scan over an h x w coefficient
// block (coeffs in row-major order, length h*w) and returns the
// interleaved (CX, D) stream the MQ coder should consume, along with the
// block's bitplane count.
func EncodeBlock(coeffs []int32, h, w int, orient context.Orientation) (cx []int, d []int, planes int) {
	var maxAbs uint32
	for _, c := range coeffs {
		if a := abs32(c); a > maxAbs {
			maxAbs = a
		}
	}
	planes = numPlanes(maxAbs)

	st := newState(h, w, orient)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if coeffs[row*w+col] < 0 {
				st.signs[st.flat(row, col)] = 1
			}
		}
	}

	em := &emitter{cx: make([]int, 0, 5*h*w*planes), d: make([]int, 0, 5*h*w*planes)}
	for k := 0; k < planes; k++ {
		shift := planes - 1 - k
		st.resetEta()
		st.sigPropEncode(coeffs, shift, em)
		st.magRefEncode(coeffs, shift, em)
		st.cleanupEncode(coeffs, shift, em)
	}
	return em.cx, em.d, planes
}

func (s *state) sigPropEncode(coeffs []int32, shift int, em *emitter) {
	for i := 0; i < rounds(s.h); i++ {
		for col := 0; col < s.w; col++ {
			for ii := 0; ii < 4; ii++ {
				row := 4*i + ii
				if s.sig(row, col) != 0 {
					continue
				}
				win := s.window(row, col)
				if win.Sum8() == 0 {
					continue
				}
				bit := int(planeBit(coeffs[row*s.w+col], shift))
				cx, _ := context.ZeroCoding(win, s.orient)
				em.emit(cx, bit)
				s.eta[s.flat(row, col)] = 1
				if bit == 1 {
					signBit, signCx := context.SignCode(win, s.signs[s.flat(row, col)])
					em.emit(signCx, signBit)
					s.setSig(row, col)
				}
			}
		}
	}
}

func (s *state) magRefEncode(coeffs []int32, shift int, em *emitter) {
	for i := 0; i < rounds(s.h); i++ {
		for col := 0; col < s.w; col++ {
			for ii := 0; ii < 4; ii++ {
				row := 4*i + ii
				if s.sig(row, col) != 1 || s.eta[s.flat(row, col)] != 0 {
					continue
				}
				win := s.window(row, col)
				refined := s.sigmaPrime[s.flat(row, col)] == 1
				cx := context.MagRefContext(win, refined)
				bit := int(planeBit(coeffs[row*s.w+col], shift))
				em.emit(cx, bit)
				s.sigmaPrime[s.flat(row, col)] = 1
			}
		}
	}
}

func (s *state) cleanupEncode(coeffs []int32, shift int, em *emitter) {
	for i := 0; i < rounds(s.h); i++ {
		for col := 0; col < s.w; col++ {
			startRow := 4 * i
			ii := 0
			if s.cleanupClear(startRow, col) {
				var colBits [4]byte
				for r := 0; r < 4; r++ {
					colBits[r] = planeBit(coeffs[(startRow+r)*s.w+col], shift)
				}
				n, d, cxs := context.RunLengthCode(colBits)
				ii = n
				if len(d) == 1 {
					em.emit(cxs[0], d[0])
				} else {
					em.emit(cxs[0], d[0])
					em.emit(cxs[1], d[1])
					em.emit(cxs[2], d[2])
					foundRow := startRow + n - 1
					win := s.window(foundRow, col)
					signBit, signCx := context.SignCode(win, s.signs[s.flat(foundRow, col)])
					em.emit(signCx, signBit)
					s.setSig(foundRow, col)
				}
			}
			for ; ii < 4; ii++ {
				row := startRow + ii
				if s.sig(row, col) != 0 || s.eta[s.flat(row, col)] != 0 {
					continue
				}
				win := s.window(row, col)
				bit := int(planeBit(coeffs[row*s.w+col], shift))
				cx, _ := context.ZeroCoding(win, s.orient)
				em.emit(cx, bit)
				if bit == 1 {
					signBit, signCx := context.SignCode(win, s.signs[s.flat(row, col)])
					em.emit(signCx, signBit)
					s.setSig(row, col)
				}
			}
		}
	}
}
