package pattern

// Reverse reverses s in place. Each block swaps the pairs (i, n-1-i) for i
// in its part of the first half, so blocks never touch the same element.
func Reverse[T any](pl Plan, s []T) {
	record("reverse", pl, len(s))
	v, done := output(pl, s)
	defer done()
	n := len(v)
	each(pl, "reverse", n/2, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v[i], v[n-1-i] = v[n-1-i], v[i]
		}
	})
}

// ReverseCopy writes src in reverse order to dst and returns len(src).
func ReverseCopy[T any](pl Plan, src, dst []T) int {
	record("reverse_copy", pl, len(src))
	n := len(src)
	dst = dst[:n]
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	each(pl, "reverse_copy", n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			vd[i] = vs[n-1-i]
		}
	})
	return n
}

// rotated is the index of the element that lands at i when s is rotated
// left by mid.
func rotated(i, mid, n int) int {
	if i < n-mid {
		return i + mid
	}
	return i - (n - mid)
}

// Rotate rotates s left so that s[mid] becomes the first element and
// returns the new position of the old first element, len(s)-mid.
func Rotate[T any](pl Plan, s []T, mid int) int {
	record("rotate", pl, len(s))
	n := len(s)
	if mid <= 0 || mid >= n {
		if mid <= 0 {
			return n
		}
		return 0
	}
	if !isDevice(pl) && !pl.Split(n) {
		reverseSerial(s[:mid])
		reverseSerial(s[mid:])
		reverseSerial(s)
		return n - mid
	}
	v, done := output(pl, s)
	defer done()
	tmp, release := scratch[T](pl, n)
	defer release()
	each(pl, "rotate", n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			tmp[i] = v[rotated(i, mid, n)]
		}
	})
	each(pl, "rotate_back", n, func(lo, hi int) {
		copy(v[lo:hi], tmp[lo:hi])
	})
	return n - mid
}

func reverseSerial[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// RotateCopy writes src rotated left by mid to dst and returns len(src).
func RotateCopy[T any](pl Plan, src []T, mid int, dst []T) int {
	record("rotate_copy", pl, len(src))
	n := len(src)
	dst = dst[:n]
	mid = max(0, min(mid, n))
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	each(pl, "rotate_copy", n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			vd[i] = vs[rotated(i, mid, n)]
		}
	})
	return n
}
