package context

import "testing"

func TestZeroCodingLLLH(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want int
	}{
		{"isolated", Window{}, 0},
		{"oneDiag", Window{NW: 1}, 1},
		{"twoDiag", Window{NW: 1, SE: 1}, 2},
		{"oneVert", Window{N: 1}, 3},
		{"twoVert", Window{N: 1, S: 1}, 4},
		{"oneHorizNoVertNoDiag", Window{W: 1}, 5},
		{"oneHorizWithDiag", Window{W: 1, NW: 1}, 6},
		{"oneHorizWithVert", Window{W: 1, N: 1}, 7},
		{"twoHoriz", Window{W: 1, E: 1}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, orient := range []Orientation{LL, LH} {
				got, err := ZeroCoding(tt.w, orient)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("ZeroCoding(%+v, %v) = %d, want %d", tt.w, orient, got, tt.want)
				}
			}
		})
	}
}

func TestZeroCodingHLSwapsRoles(t *testing.T) {
	// HL swaps h and v: a vertical pair should score like a horizontal
	// pair does under LL/LH.
	w := Window{N: 1, S: 1}
	got, err := ZeroCoding(w, HL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Errorf("ZeroCoding(%+v, HL) = %d, want 8", w, got)
	}
}

func TestZeroCodingInvalidOrientation(t *testing.T) {
	_, err := ZeroCoding(Window{}, Orientation(99))
	if err != ErrInvalidOrientation {
		t.Fatalf("err = %v, want ErrInvalidOrientation", err)
	}
}

func TestSignCodeRoundTrip(t *testing.T) {
	windows := []Window{
		{},
		{W: 1},
		{E: 1},
		{N: 1, S: 1},
		{W: 1, E: 1, N: 1, S: 1},
	}
	for _, w := range windows {
		for _, sign := range []byte{0, 1} {
			bit, cx := SignCode(w, sign)
			got, err := SignDecode(bit, cx, w)
			if err != nil {
				t.Fatalf("SignDecode: %v", err)
			}
			if got != sign {
				t.Errorf("round trip: sign=%d window=%+v got=%d", sign, w, got)
			}
		}
	}
}

func TestSignDecodeContextMismatch(t *testing.T) {
	w := Window{W: 1}
	_, cx := SignCode(w, 1)
	_, err := SignDecode(1, cx+1, w)
	if err != ErrSignContextMismatch {
		t.Fatalf("err = %v, want ErrSignContextMismatch", err)
	}
}

func TestMagRefContext(t *testing.T) {
	if got := MagRefContext(Window{}, true); got != 16 {
		t.Errorf("refined=true: got %d, want 16", got)
	}
	if got := MagRefContext(Window{N: 1}, false); got != 15 {
		t.Errorf("refined=false, neighbor sig: got %d, want 15", got)
	}
	if got := MagRefContext(Window{}, false); got != 14 {
		t.Errorf("refined=false, no neighbor sig: got %d, want 14", got)
	}
}

func TestRunLengthCodeAllZero(t *testing.T) {
	n, d, cx := RunLengthCode([4]byte{0, 0, 0, 0})
	if n != 4 || len(d) != 1 || d[0] != 0 || len(cx) != 1 || cx[0] != 17 {
		t.Fatalf("got n=%d d=%v cx=%v", n, d, cx)
	}
}

func TestRunLengthCodeFirstPositions(t *testing.T) {
	tests := []struct {
		col  [4]byte
		n    int
		d    []int
	}{
		{[4]byte{1, 0, 0, 0}, 1, []int{1, 0, 0}},
		{[4]byte{0, 1, 0, 0}, 2, []int{1, 0, 1}},
		{[4]byte{0, 0, 1, 0}, 3, []int{1, 1, 0}},
		{[4]byte{0, 0, 0, 1}, 4, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		n, d, cx := RunLengthCode(tt.col)
		if n != tt.n {
			t.Errorf("col=%v: n=%d, want %d", tt.col, n, tt.n)
		}
		for i := range tt.d {
			if d[i] != tt.d[i] {
				t.Errorf("col=%v: d=%v, want %v", tt.col, d, tt.d)
			}
		}
		if cx[0] != 17 || cx[1] != 18 || cx[2] != 18 {
			t.Errorf("col=%v: cx=%v, want [17 18 18]", tt.col, cx)
		}
	}
}

func TestRunLengthDecodeRoundTrip(t *testing.T) {
	tests := [][4]byte{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	for _, col := range tests {
		n, d, _ := RunLengthCode(col)
		gotN, err := RunLengthDecode(d[1], d[2])
		if err != nil {
			t.Fatalf("RunLengthDecode: %v", err)
		}
		if gotN != n {
			t.Errorf("col=%v: decoded n=%d, want %d", col, gotN, n)
		}
	}
}

func TestRunLengthDecodeInvalid(t *testing.T) {
	_, err := RunLengthDecode(7, 7)
	if err != ErrInvalidRunLength {
		t.Fatalf("err = %v, want ErrInvalidRunLength", err)
	}
}
