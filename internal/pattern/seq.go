package pattern

import "iter"

// Forward sequences can't be indexed or split, so these always walk in
// order on the calling goroutine whatever the plan says.

func ForEachSeq[T any](pl Plan, seq iter.Seq[T], f func(T)) {
	record("for_each", pl, 0)
	for v := range seq {
		f(v)
	}
}

func CountIfSeq[T any](pl Plan, seq iter.Seq[T], pred func(T) bool) int {
	record("count", pl, 0)
	n := 0
	for v := range seq {
		if pred(v) {
			n++
		}
	}
	return n
}

// FindIfSeq returns the first element satisfying pred and its position.
func FindIfSeq[T any](pl Plan, seq iter.Seq[T], pred func(T) bool) (T, int, bool) {
	record("find", pl, 0)
	i := 0
	for v := range seq {
		if pred(v) {
			return v, i, true
		}
		i++
	}
	var zero T
	return zero, i, false
}
