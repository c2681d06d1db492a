package context

// classifyPair reduces a pair of neighbor significance bits to 0 or 1,
// matching the reference coder's lookup table. The table is defined over
// {-1,0,+1} x {-1,0,+1} in the standard (genuine sign prediction), but
// this implementation only ever calls it with the neighbors' σ bits (0 or
// 1), never their actual sign -- see the "2D sign information at
// sign-coding time" design note. Restricted to that domain, the table
// degenerates to a plain OR.
func classifyPair(a, b byte) int {
	if a != 0 || b != 0 {
		return 1
	}
	return 0
}

// signContextTable[h][v] is the sign-coding context for each reachable
// (h, v) classification. Context 11 is unreachable here: the standard
// reserves it for neighbors predicting opposite signs, which requires
// actual sign values this implementation never has access to.
var signContextTable = [2][2]int{
	{9, 10},
	{12, 13},
}

// signPredictTable[h][v] is the predicted sign bit. Every reachable entry
// is 0 -- with only σ bits available, the classifier can never predict a
// negative sign -- so SignCode's emitted bit always equals the raw sign.
var signPredictTable = [2][2]int{
	{0, 0},
	{0, 0},
}

func signClassify(w Window) (h, v int) {
	h = classifyPair(w.W, w.E)
	v = classifyPair(w.N, w.S)
	return
}

// SignCode predicts the sign of a coefficient that just became significant
// from its horizontal/vertical neighbor significance, returning the bit to
// emit (sign XOR prediction) and the context label (9..13).
func SignCode(w Window, sign byte) (bit int, cx int) {
	h, v := signClassify(w)
	predict := signPredictTable[h][v]
	cx = signContextTable[h][v]
	bit = int(sign) ^ predict
	return bit, cx
}

// SignDecode recovers the sign bit given the decoded D value and the CX
// label read from the stream, checking that the neighborhood reproduces
// the same context the encoder used.
func SignDecode(d int, cx int, w Window) (byte, error) {
	h, v := signClassify(w)
	predict := signPredictTable[h][v]
	wantCx := signContextTable[h][v]
	if wantCx != cx {
		return 0, ErrSignContextMismatch
	}
	return byte(d ^ predict), nil
}
