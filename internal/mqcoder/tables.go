package mqcoder

// petEntry is one row of the probability-estimation table: the LPS
// probability Qe, the next state index on an MPS-path transition, the next
// state index on an LPS-path transition, and whether an LPS-path transition
// toggles the sense of MPS for that context.
type petEntry struct {
	qe      uint32
	nextMPS uint8
	nextLPS uint8
	switchMPS bool
}

// pet is the canonical 47-state JPEG 2000 / JBIG2 Annex E probability
// estimation table, loaded once and shared read-only across every coder
// instance. Index 46 is the "uniform" state used by context 18 (CtxUni).
var pet = [47]petEntry{
	{0x5601, 1, 1, true}, {0x3401, 2, 6, false}, {0x1801, 3, 9, false},
	{0x0AC1, 4, 12, false}, {0x0521, 5, 29, false}, {0x0221, 38, 33, false},
	{0x5601, 7, 6, true}, {0x5401, 8, 14, false}, {0x4801, 9, 14, false},
	{0x3801, 10, 14, false}, {0x3001, 11, 17, false}, {0x2401, 12, 18, false},
	{0x1C01, 13, 20, false}, {0x1601, 29, 21, false}, {0x5601, 15, 14, true},
	{0x5401, 16, 14, false}, {0x5101, 17, 15, false}, {0x4801, 18, 16, false},
	{0x3801, 19, 17, false}, {0x3401, 20, 18, false}, {0x3001, 21, 19, false},
	{0x2801, 22, 19, false}, {0x2401, 23, 20, false}, {0x2201, 24, 21, false},
	{0x1C01, 25, 22, false}, {0x1801, 26, 23, false}, {0x1601, 27, 24, false},
	{0x1401, 28, 25, false}, {0x1201, 29, 26, false}, {0x1101, 30, 27, false},
	{0x0AC1, 31, 28, false}, {0x09C1, 32, 29, false}, {0x08A1, 33, 30, false},
	{0x0521, 34, 31, false}, {0x0441, 35, 32, false}, {0x02A1, 36, 33, false},
	{0x0221, 37, 34, false}, {0x0141, 38, 35, false}, {0x0111, 39, 36, false},
	{0x0085, 40, 37, false}, {0x0049, 41, 38, false}, {0x0025, 42, 39, false},
	{0x0015, 43, 40, false}, {0x0009, 44, 41, false}, {0x0005, 45, 42, false},
	{0x0001, 45, 43, false}, {0x5601, 46, 46, false},
}

// Context labels, matching the 0..18 range used by the bitplane pass
// engine: 0..8 zero coding, 9..13 sign coding, 14..16 magnitude
// refinement, 17..18 run-length / uniform.
const (
	CtxZC0 = iota
	CtxZC1
	CtxZC2
	CtxZC3
	CtxZC4
	CtxZC5
	CtxZC6
	CtxZC7
	CtxZC8
	CtxSC0
	CtxSC1
	CtxSC2
	CtxSC3
	CtxSC4
	CtxMag0
	CtxMag1
	CtxMag2
	CtxRL
	CtxUni
	NumContexts
)

// cxState is one entry of the mutable per-block context table: the current
// PET state index and the predicted most-probable symbol for that context.
type cxState struct {
	state uint8
	mps   uint8
}

// initialStates is the canonical JPEG 2000 initial (state, MPS) pair for
// each context label. Every context starts in state 0 except CtxUni, which
// starts in the dedicated uniform state 46; all contexts start predicting
// MPS=0.
var initialStates = [NumContexts]cxState{
	{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
	{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
	{0, 0}, {0, 0}, {0, 0},
	{0, 0}, {46, 0},
}

func newContexts() [NumContexts]cxState {
	return initialStates
}
