package context

// ZeroCoding classifies a not-yet-significant coefficient, returning a
// context label in 0..8. h and v are the horizontal/vertical neighbor
// significance counts (0..2), d is the diagonal count (0..4); which pair
// drives the table lookup depends on orientation, per the canonical JPEG
// 2000 Zero-Coding tables (LL and LH share one table; HL swaps the roles
// of h and v; HH classifies on d and h+v).
func ZeroCoding(w Window, orient Orientation) (int, error) {
	h := int(w.W) + int(w.E)
	v := int(w.N) + int(w.S)
	d := int(w.NW) + int(w.NE) + int(w.SW) + int(w.SE)

	switch orient {
	case LL, LH:
		return zcLLLH(h, v, d), nil
	case HL:
		return zcLLLH(v, h, d), nil
	case HH:
		return zcHH(h+v, d), nil
	default:
		return 0, ErrInvalidOrientation
	}
}

func zcLLLH(h, v, d int) int {
	switch {
	case h == 2:
		return 8
	case h == 1 && v >= 1:
		return 7
	case h == 1 && v == 0 && d >= 1:
		return 6
	case h == 1 && v == 0 && d == 0:
		return 5
	case h == 0 && v == 2:
		return 4
	case h == 0 && v == 1:
		return 3
	case h == 0 && v == 0 && d >= 2:
		return 2
	case h == 0 && v == 0 && d == 1:
		return 1
	default:
		return 0
	}
}

func zcHH(hPlusV, d int) int {
	switch {
	case d >= 3:
		return 8
	case d == 2 && hPlusV >= 1:
		return 7
	case d == 2 && hPlusV == 0:
		return 6
	case d == 1 && hPlusV >= 2:
		return 5
	case d == 1 && hPlusV == 1:
		return 4
	case d == 1 && hPlusV == 0:
		return 3
	case d == 0 && hPlusV >= 2:
		return 2
	case d == 0 && hPlusV == 1:
		return 1
	default:
		return 0
	}
}
