package bitplane

import "github.com/arielsw/ebcot/internal/context"

// reader walks a pre-decoded (CX, D) pair positionally, mirroring the
// exact order the encode-side passes would have emitted them in. Once
// exhausted it reports ok=false forever after, which every pass treats as
// "this coefficient was never coded" -- the recoverable premature-
// end-of-stream policy: the coefficient's reconstructed value stays at its
// zero-initialized default rather than raising an error.
type reader struct {
	cx        []int
	d         []int
	pos       int
	truncated bool
}

func (r *reader) pop() (cx, d int, ok bool) {
	if r.pos >= len(r.d) {
		r.truncated = true
		return 0, 0, false
	}
	cx, d = r.cx[r.pos], r.d[r.pos]
	r.pos++
	return cx, d, true
}

// DecodeBlock replays the three-pass scan against a pre-decoded (CX, D)
// stream -- the inverse of EncodeBlock -- reconstructing an h x w signed
// coefficient block. truncated reports whether the stream ran out before
// the scan completed (condition 5: a recoverable warning, not an error).
func DecodeBlock(cx, d []int, h, w, planes int, orient context.Orientation) (coeffs []int32, truncated bool, err error) {
	st := newState(h, w, orient)
	bits := make([]byte, planes*h*w)
	r := &reader{cx: cx, d: d}

	for k := 0; k < planes; k++ {
		st.resetEta()
		if e := st.sigPropDecode(r, bits, k, h, w); e != nil {
			return nil, r.truncated, e
		}
		st.magRefDecode(r, bits, k, h, w)
		if e := st.cleanupDecode(r, bits, k, h, w); e != nil {
			return nil, r.truncated, e
		}
	}

	coeffs = make([]int32, h*w)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			var mag int32
			for k := 0; k < planes; k++ {
				if bits[k*h*w+row*w+col] != 0 {
					mag += 1 << uint(planes-1-k)
				}
			}
			sign := st.signs[st.flat(row, col)]
			v := mag
			if sign == 1 {
				v = -v
			}
			coeffs[row*w+col] = v
		}
	}
	return coeffs, r.truncated, nil
}

func (s *state) sigPropDecode(r *reader, bits []byte, plane, h, w int) error {
	for i := 0; i < rounds(h); i++ {
		for col := 0; col < w; col++ {
			for ii := 0; ii < 4; ii++ {
				row := 4*i + ii
				if s.sig(row, col) != 0 {
					continue
				}
				win := s.window(row, col)
				if win.Sum8() == 0 {
					continue
				}
				_, bit, ok := r.pop()
				if !ok {
					continue
				}
				bits[plane*h*w+row*w+col] = byte(bit)
				s.eta[s.flat(row, col)] = 1
				if bit == 1 {
					signCx, signD, ok := r.pop()
					if !ok {
						continue
					}
					sign, err := context.SignDecode(signD, signCx, win)
					if err != nil {
						return err
					}
					s.signs[s.flat(row, col)] = sign
					s.setSig(row, col)
				}
			}
		}
	}
	return nil
}

func (s *state) magRefDecode(r *reader, bits []byte, plane, h, w int) {
	for i := 0; i < rounds(h); i++ {
		for col := 0; col < w; col++ {
			for ii := 0; ii < 4; ii++ {
				row := 4*i + ii
				if s.sig(row, col) != 1 || s.eta[s.flat(row, col)] != 0 {
					continue
				}
				_, bit, ok := r.pop()
				if !ok {
					continue
				}
				bits[plane*h*w+row*w+col] = byte(bit)
				s.sigmaPrime[s.flat(row, col)] = 1
			}
		}
	}
}

func (s *state) cleanupDecode(r *reader, bits []byte, plane, h, w int) error {
	for i := 0; i < rounds(h); i++ {
		for col := 0; col < w; col++ {
			startRow := 4 * i
			ii := 0
			if s.cleanupClear(startRow, col) {
				_, d0, ok := r.pop()
				if !ok {
					continue
				}
				if d0 == 0 {
					ii = 4
				} else {
					_, d1, ok1 := r.pop()
					_, d2, ok2 := r.pop()
					if !ok1 || !ok2 {
						continue
					}
					n, err := context.RunLengthDecode(d1, d2)
					if err != nil {
						return err
					}
					ii = n
					bits[plane*h*w+(startRow+n-1)*w+col] = 1
					foundRow := startRow + n - 1
					win := s.window(foundRow, col)
					signCx, signD, ok := r.pop()
					if !ok {
						continue
					}
					sign, err := context.SignDecode(signD, signCx, win)
					if err != nil {
						return err
					}
					s.signs[s.flat(foundRow, col)] = sign
					s.setSig(foundRow, col)
				}
			}
			for ; ii < 4; ii++ {
				row := startRow + ii
				if s.sig(row, col) != 0 || s.eta[s.flat(row, col)] != 0 {
					continue
				}
				win := s.window(row, col)
				_, bit, ok := r.pop()
				if !ok {
					continue
				}
				bits[plane*h*w+row*w+col] = byte(bit)
				if bit == 1 {
					signCx, signD, ok := r.pop()
					if !ok {
						continue
					}
					sign, err := context.SignDecode(signD, signCx, win)
					if err != nil {
						return err
					}
					s.signs[s.flat(row, col)] = sign
					s.setSig(row, col)
				}
			}
		}
	}
	return nil
}
