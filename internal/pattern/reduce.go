package pattern

import (
	"github.com/23skdu/longbow-pstl/internal/parallel"
	"github.com/23skdu/longbow-pstl/internal/simd"
)

// reduceBlocks computes brick over each block of [0, n) and folds the
// partials into init from left to right once every block has finished.
// brick is only called on non-empty blocks.
//
// Only the block partitioning depends on the backend, so op must be
// associative for the result not to depend on the plan; for
// non-associative operations the grouping is unspecified.
func reduceBlocks[R any](pl Plan, name string, n int, init R, op func(R, R) R, brick func(lo, hi int) R) R {
	var parts []R
	if !isDevice(pl) && pl.Split(n) {
		parts = parallel.Submit(pl.Exec, n, func(c parallel.Chunk) R {
			return brick(c.Lo, c.Hi)
		})
	} else {
		chunks, run := partition(pl, name, n)
		parts = make([]R, len(chunks))
		run(func(c parallel.Chunk) {
			parts[c.Index] = brick(c.Lo, c.Hi)
		})
	}
	acc := init
	for _, p := range parts {
		acc = op(acc, p)
	}
	return acc
}

// Reduce folds s into init with op. brick, when set, reduces a non-empty
// contiguous block and replaces the default loop (used for the float64
// sum fast path).
func Reduce[T any](pl Plan, s []T, init T, op func(T, T) T, brick func([]T) T) T {
	record("reduce", pl, len(s))
	v, done := input(pl, s)
	defer done()
	return reduceBlocks(pl, "reduce", len(v), init, op, func(lo, hi int) T {
		switch {
		case brick != nil:
			return brick(v[lo:hi])
		case pl.Vector():
			return simd.Reduce(v[lo:hi], pl.Lanes, op)
		}
		acc := v[lo]
		for _, x := range v[lo+1 : hi] {
			acc = op(acc, x)
		}
		return acc
	})
}

// TransformReduce folds transform(s[i]) into init with reduce.
func TransformReduce[T, R any](pl Plan, s []T, init R, reduce func(R, R) R, transform func(T) R) R {
	record("transform_reduce", pl, len(s))
	v, done := input(pl, s)
	defer done()
	return reduceBlocks(pl, "transform_reduce", len(v), init, reduce, func(lo, hi int) R {
		acc := transform(v[lo])
		for _, x := range v[lo+1 : hi] {
			acc = reduce(acc, transform(x))
		}
		return acc
	})
}

// TransformReduce2 folds transform(a[i], b[i]) into init with reduce.
func TransformReduce2[T, U, R any](pl Plan, a []T, b []U, init R, reduce func(R, R) R, transform func(T, U) R, brick func([]T, []U) R) R {
	record("transform_reduce2", pl, len(a))
	b = b[:len(a)]
	va, doneA := input(pl, a)
	defer doneA()
	vb, doneB := input(pl, b)
	defer doneB()
	return reduceBlocks(pl, "transform_reduce2", len(va), init, reduce, func(lo, hi int) R {
		if brick != nil {
			return brick(va[lo:hi], vb[lo:hi])
		}
		acc := transform(va[lo], vb[lo])
		for i := lo + 1; i < hi; i++ {
			acc = reduce(acc, transform(va[i], vb[i]))
		}
		return acc
	})
}

// Count returns the number of elements satisfying pred.
func Count[T any](pl Plan, s []T, pred func(T) bool) int {
	record("count", pl, len(s))
	v, done := input(pl, s)
	defer done()
	return reduceBlocks(pl, "count", len(v), 0, add, func(lo, hi int) int {
		return simd.Count(v[lo:hi], pred)
	})
}

func add(a, b int) int { return a + b }

// MinElement returns the index of the first smallest element, or len(s).
func MinElement[T any](pl Plan, s []T, less func(T, T) bool) int {
	record("min_element", pl, len(s))
	if len(s) == 0 {
		return 0
	}
	v, done := input(pl, s)
	defer done()
	pick := func(i, j int) int {
		if i < 0 || less(v[j], v[i]) {
			return j
		}
		return i
	}
	return reduceBlocks(pl, "min_element", len(v), -1, pick, func(lo, hi int) int {
		best := lo
		for i := lo + 1; i < hi; i++ {
			best = pick(best, i)
		}
		return best
	})
}

// MaxElement returns the index of the first largest element, or len(s).
func MaxElement[T any](pl Plan, s []T, less func(T, T) bool) int {
	record("max_element", pl, len(s))
	if len(s) == 0 {
		return 0
	}
	v, done := input(pl, s)
	defer done()
	pick := func(i, j int) int {
		if i < 0 || less(v[i], v[j]) {
			return j
		}
		return i
	}
	return reduceBlocks(pl, "max_element", len(v), -1, pick, func(lo, hi int) int {
		best := lo
		for i := lo + 1; i < hi; i++ {
			best = pick(best, i)
		}
		return best
	})
}

type minmax struct{ lo, hi int }

// MinMaxElement returns the indices of the first smallest and the last
// largest element, or (len(s), len(s)).
func MinMaxElement[T any](pl Plan, s []T, less func(T, T) bool) (int, int) {
	record("minmax_element", pl, len(s))
	if len(s) == 0 {
		return 0, 0
	}
	v, done := input(pl, s)
	defer done()
	pick := func(a, b minmax) minmax {
		if a.lo < 0 {
			return b
		}
		if less(v[b.lo], v[a.lo]) {
			a.lo = b.lo
		}
		if !less(v[b.hi], v[a.hi]) {
			a.hi = b.hi
		}
		return a
	}
	r := reduceBlocks(pl, "minmax_element", len(v), minmax{-1, -1}, pick, func(lo, hi int) minmax {
		acc := minmax{lo, lo}
		for i := lo + 1; i < hi; i++ {
			acc = pick(acc, minmax{i, i})
		}
		return acc
	})
	return r.lo, r.hi
}
