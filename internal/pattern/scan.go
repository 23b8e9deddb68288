package pattern

import (
	"github.com/23skdu/longbow-pstl/internal/parallel"
)

// ScanOp describes one prefix scan.
type ScanOp[T, R any] struct {
	Op        func(R, R) R
	Transform func(T) R
	// Init seeds the scan when HasInit is set; exclusive scans need it.
	Init      R
	HasInit   bool
	Inclusive bool
}

type carry[R any] struct {
	v  R
	ok bool
}

// Scan writes the prefix scan of src to dst and returns len(src). dst may
// be src itself.
//
// The split version runs in two passes over the same blocks: block totals
// first, then each block rescans with the total of everything before it.
func Scan[T, R any](pl Plan, src []T, dst []R, s ScanOp[T, R]) int {
	record("scan", pl, len(src))
	n := len(src)
	if n == 0 {
		return 0
	}
	dst = dst[:n]
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()

	seed := carry[R]{v: s.Init, ok: s.HasInit}
	chunks, run := partition(pl, "scan", n)
	if len(chunks) == 1 {
		scanBlock(vs, vd, 0, n, seed, s)
		return n
	}

	totals := make([]R, len(chunks))
	run(func(c parallel.Chunk) {
		acc := s.Transform(vs[c.Lo])
		for i := c.Lo + 1; i < c.Hi; i++ {
			acc = s.Op(acc, s.Transform(vs[i]))
		}
		totals[c.Index] = acc
	})

	carries := make([]carry[R], len(chunks))
	cur := seed
	for i, t := range totals {
		carries[i] = cur
		if cur.ok {
			cur.v = s.Op(cur.v, t)
		} else {
			cur = carry[R]{v: t, ok: true}
		}
	}

	run(func(c parallel.Chunk) {
		scanBlock(vs, vd, c.Lo, c.Hi, carries[c.Index], s)
	})
	return n
}

// scanBlock scans [lo, hi) starting from in. Each element is read before
// its output slot is written.
func scanBlock[T, R any](src []T, dst []R, lo, hi int, in carry[R], s ScanOp[T, R]) {
	acc, ok := in.v, in.ok
	for i := lo; i < hi; i++ {
		x := s.Transform(src[i])
		switch {
		case s.Inclusive && ok:
			acc = s.Op(acc, x)
			dst[i] = acc
		case s.Inclusive:
			acc, ok = x, true
			dst[i] = acc
		default:
			dst[i] = acc
			acc = s.Op(acc, x)
		}
	}
}

// AdjacentDifference writes src[0] and then op(src[i], src[i-1]) to dst.
// The ranges must not overlap.
func AdjacentDifference[T any](pl Plan, src, dst []T, op func(T, T) T) int {
	record("adjacent_difference", pl, len(src))
	n := len(src)
	if n == 0 {
		return 0
	}
	dst = dst[:n]
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	vd[0] = vs[0]
	each(pl, "adjacent_difference", n-1, func(lo, hi int) {
		for i := lo + 1; i <= hi; i++ {
			vd[i] = op(vs[i], vs[i-1])
		}
	})
	return n
}
