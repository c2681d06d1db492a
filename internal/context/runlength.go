package context

// RunLengthCode applies the run-length shortcut to a 4-row column of
// current-plane bits, used by Cleanup when the whole column is
// insignificant with no significant neighbor. col[i] is the i-th bit from
// the top of the column.
//
// It returns n, the number of coefficients the codeword accounts for, and
// the (d, cx) pairs to emit. A single-symbol zero codeword (col is all
// zero) means the whole column stays insignificant; any other result is
// three codewords identifying the first significant row within the
// column, after which the caller still owes a Sign-coding step for that
// row.
func RunLengthCode(col [4]byte) (n int, d []int, cx []int) {
	switch {
	case col[0] == 0 && col[1] == 0 && col[2] == 0 && col[3] == 0:
		return 4, []int{0}, []int{17}
	case col[0] == 1:
		return 1, []int{1, 0, 0}, []int{17, 18, 18}
	case col[0] == 0 && col[1] == 1:
		return 2, []int{1, 0, 1}, []int{17, 18, 18}
	case col[0] == 0 && col[1] == 0 && col[2] == 1:
		return 3, []int{1, 1, 0}, []int{17, 18, 18}
	default: // col[0]==0 && col[1]==0 && col[2]==0 && col[3]==1
		return 4, []int{1, 1, 1}, []int{17, 18, 18}
	}
}

// RunLengthDecode recovers n, the 1-based row within the column of the
// first significant coefficient, from the two tail symbols d1, d2 decoded
// under context 18 after a leading 1 was decoded under context 17. The
// caller is responsible for handling the leading symbol itself: a leading
// 0 means the whole column stayed insignificant (n=4, no Sign-coding
// follows) and RunLengthDecode is not called at all in that case.
func RunLengthDecode(d1, d2 int) (n int, err error) {
	switch {
	case d1 == 0 && d2 == 0:
		return 1, nil
	case d1 == 0 && d2 == 1:
		return 2, nil
	case d1 == 1 && d2 == 0:
		return 3, nil
	case d1 == 1 && d2 == 1:
		return 4, nil
	default:
		return 0, ErrInvalidRunLength
	}
}
