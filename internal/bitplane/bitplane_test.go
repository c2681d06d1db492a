package bitplane

import (
	"math/rand"
	"testing"

	"github.com/arielsw/ebcot/internal/context"
	"github.com/arielsw/ebcot/internal/mqcoder"
)

// roundTrip runs EncodeBlock, feeds the (CX, D) stream through a fresh
// MQ encoder/decoder pair, and replays DecodeBlock -- exercising the full
// stack exactly as the block codec will.
func roundTrip(t *testing.T, coeffs []int32, h, w int, orient context.Orientation) []int32 {
	t.Helper()
	cx, d, planes := EncodeBlock(coeffs, h, w, orient)

	enc := mqcoder.NewEncoder()
	for i := range cx {
		enc.Encode(cx[i], d[i])
	}
	stream := enc.Flush()

	dec := mqcoder.NewDecoder(stream)
	decodedD := make([]int, len(cx))
	for i := range cx {
		decodedD[i] = dec.Decode(cx[i])
	}

	got, truncated, err := DecodeBlock(cx, decodedD, h, w, planes, orient)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if truncated {
		t.Fatalf("DecodeBlock unexpectedly reported truncation")
	}
	return got
}

func assertEqual(t *testing.T, got, want []int32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d want %d\nfull got=%v\nfull want=%v", i, got[i], want[i], got, want)
		}
	}
}

func TestAllZeroBlock(t *testing.T) {
	coeffs := make([]int32, 64)
	got := roundTrip(t, coeffs, 8, 8, context.LL)
	assertEqual(t, got, coeffs)
}

func TestSinglePositiveCoefficient(t *testing.T) {
	coeffs := make([]int32, 64)
	coeffs[0] = 5
	got := roundTrip(t, coeffs, 8, 8, context.LL)
	assertEqual(t, got, coeffs)
}

func TestSingleNegativeCoefficient(t *testing.T) {
	coeffs := make([]int32, 64)
	coeffs[27] = -11
	got := roundTrip(t, coeffs, 8, 8, context.HL)
	assertEqual(t, got, coeffs)
}

func TestAllOrientations(t *testing.T) {
	for _, orient := range []context.Orientation{context.LL, context.LH, context.HL, context.HH} {
		coeffs := make([]int32, 16)
		for i := range coeffs {
			coeffs[i] = int32(i%7) - 3
		}
		got := roundTrip(t, coeffs, 4, 4, orient)
		assertEqual(t, got, coeffs)
	}
}

func TestRandomBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		h, w := 4*(1+rng.Intn(4)), 1+rng.Intn(8)
		coeffs := make([]int32, h*w)
		for i := range coeffs {
			coeffs[i] = int32(rng.Intn(257) - 128)
		}
		orient := context.Orientation(rng.Intn(4))
		got := roundTrip(t, coeffs, h, w, orient)
		assertEqual(t, got, coeffs)
	}
}

func TestDenseHighMagnitudeBlock(t *testing.T) {
	coeffs := make([]int32, 64)
	for i := range coeffs {
		if i%2 == 0 {
			coeffs[i] = int32(1000 + i)
		} else {
			coeffs[i] = -int32(1000 + i)
		}
	}
	got := roundTrip(t, coeffs, 8, 8, context.HH)
	assertEqual(t, got, coeffs)
}

func TestTruncatedStreamReportsWarningNotError(t *testing.T) {
	coeffs := make([]int32, 64)
	for i := range coeffs {
		coeffs[i] = int32(i % 5)
	}
	cx, d, planes := EncodeBlock(coeffs, 8, 8, context.LL)

	enc := mqcoder.NewEncoder()
	for i := range cx {
		enc.Encode(cx[i], d[i])
	}
	stream := enc.Flush()

	dec := mqcoder.NewDecoder(stream)
	decodedD := make([]int, len(cx))
	for i := range cx {
		decodedD[i] = dec.Decode(cx[i])
	}

	truncAt := len(cx) / 2
	_, truncated, err := DecodeBlock(cx[:truncAt], decodedD[:truncAt], 8, 8, planes, context.LL)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if !truncated {
		t.Fatalf("expected truncated=true for a shortened (CX, D) stream")
	}
}
