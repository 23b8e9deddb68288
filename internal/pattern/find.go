package pattern

import (
	"sync/atomic"

	"github.com/23skdu/longbow-pstl/internal/parallel"
	"github.com/23skdu/longbow-pstl/internal/simd"
)

// findFirst returns the smallest index in [0, n) reported by test, or n.
// test scans [lo, hi) and returns the first hit there or -1. Blocks that
// start past the best hit so far are skipped, so the leftmost hit wins no
// matter which block finishes first.
func findFirst(pl Plan, name string, n int, test func(lo, hi int) int) int {
	if n <= 0 {
		return n
	}
	var best atomic.Int64
	best.Store(int64(n))
	step := max(1, pl.Exec.GrainSize())
	_, run := partition(pl, name, n)
	run(func(c parallel.Chunk) {
		for lo := c.Lo; lo < c.Hi; lo += step {
			if int64(lo) >= best.Load() {
				return
			}
			if r := test(lo, min(c.Hi, lo+step)); r >= 0 {
				storeMin(&best, int64(r))
				return
			}
		}
	})
	return int(best.Load())
}

// findLast returns the largest index in [0, n) reported by test, or -1.
// test returns the last hit in [lo, hi) or -1.
func findLast(pl Plan, name string, n int, test func(lo, hi int) int) int {
	if n <= 0 {
		return -1
	}
	var best atomic.Int64
	best.Store(-1)
	step := max(1, pl.Exec.GrainSize())
	_, run := partition(pl, name, n)
	run(func(c parallel.Chunk) {
		for hi := c.Hi; hi > c.Lo; hi -= step {
			if int64(hi-1) <= best.Load() {
				return
			}
			if r := test(max(c.Lo, hi-step), hi); r >= 0 {
				storeMax(&best, int64(r))
				return
			}
		}
	})
	return int(best.Load())
}

func storeMin(v *atomic.Int64, x int64) {
	for {
		cur := v.Load()
		if x >= cur || v.CompareAndSwap(cur, x) {
			return
		}
	}
}

func storeMax(v *atomic.Int64, x int64) {
	for {
		cur := v.Load()
		if x <= cur || v.CompareAndSwap(cur, x) {
			return
		}
	}
}

func scanFirst(lo, hi int, hit func(i int) bool) int {
	for i := lo; i < hi; i++ {
		if hit(i) {
			return i
		}
	}
	return -1
}

func scanLast(lo, hi int, hit func(i int) bool) int {
	for i := hi - 1; i >= lo; i-- {
		if hit(i) {
			return i
		}
	}
	return -1
}

// FindIf returns the index of the first element satisfying pred, or len(s).
func FindIf[T any](pl Plan, s []T, pred func(T) bool) int {
	record("find_if", pl, len(s))
	v, done := input(pl, s)
	defer done()
	return findFirst(pl, "find_if", len(v), func(lo, hi int) int {
		if pl.Vector() {
			if r := simd.Index(v[lo:hi], pl.Lanes, pred); r >= 0 {
				return lo + r
			}
			return -1
		}
		return scanFirst(lo, hi, func(i int) bool { return pred(v[i]) })
	})
}

// AnyOf reports whether some element satisfies pred.
func AnyOf[T any](pl Plan, s []T, pred func(T) bool) bool {
	return FindIf(pl, s, pred) < len(s)
}

// Mismatch returns the first index where eq(a[i], b[i]) fails, or the
// shorter length.
func Mismatch[T, U any](pl Plan, a []T, b []U, eq func(T, U) bool) int {
	n := min(len(a), len(b))
	record("mismatch", pl, n)
	va, doneA := input(pl, a[:n])
	defer doneA()
	vb, doneB := input(pl, b[:n])
	defer doneB()
	return findFirst(pl, "mismatch", n, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool { return !eq(va[i], vb[i]) })
	})
}

// AdjacentFind returns the first i with eq(s[i], s[i+1]), or len(s).
func AdjacentFind[T any](pl Plan, s []T, eq func(T, T) bool) int {
	record("adjacent_find", pl, len(s))
	if len(s) < 2 {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	r := findFirst(pl, "adjacent_find", len(v)-1, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool { return eq(v[i], v[i+1]) })
	})
	if r == len(v)-1 {
		return len(s)
	}
	return r
}

func matchAt[T any](s, sub []T, i int, eq func(T, T) bool) bool {
	for j := range sub {
		if !eq(s[i+j], sub[j]) {
			return false
		}
	}
	return true
}

// Search returns the first position where sub occurs in s, or len(s). An
// empty sub matches at 0.
func Search[T any](pl Plan, s, sub []T, eq func(T, T) bool) int {
	record("search", pl, len(s))
	if len(sub) == 0 {
		return 0
	}
	if len(sub) > len(s) {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	w, doneSub := input(pl, sub)
	defer doneSub()
	positions := len(v) - len(w) + 1
	r := findFirst(pl, "search", positions, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool { return matchAt(v, w, i, eq) })
	})
	if r == positions {
		return len(s)
	}
	return r
}

// FindEnd returns the last position where sub occurs in s, or len(s). An
// empty sub is never found.
func FindEnd[T any](pl Plan, s, sub []T, eq func(T, T) bool) int {
	record("find_end", pl, len(s))
	if len(sub) == 0 || len(sub) > len(s) {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	w, doneSub := input(pl, sub)
	defer doneSub()
	r := findLast(pl, "find_end", len(v)-len(w)+1, func(lo, hi int) int {
		return scanLast(lo, hi, func(i int) bool { return matchAt(v, w, i, eq) })
	})
	if r < 0 {
		return len(s)
	}
	return r
}

// SearchN returns the first position of count consecutive elements equal
// to value under eq, or len(s). A nonpositive count matches at 0.
func SearchN[T any](pl Plan, s []T, count int, value T, eq func(T, T) bool) int {
	record("search_n", pl, len(s))
	if count <= 0 {
		return 0
	}
	if count > len(s) {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	positions := len(v) - count + 1
	r := findFirst(pl, "search_n", positions, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool {
			for j := i; j < i+count; j++ {
				if !eq(v[j], value) {
					return false
				}
			}
			return true
		})
	})
	if r == positions {
		return len(s)
	}
	return r
}

// FindFirstOf returns the first index whose element matches any element
// of set, or len(s).
func FindFirstOf[T any](pl Plan, s, set []T, eq func(T, T) bool) int {
	record("find_first_of", pl, len(s))
	if len(set) == 0 {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	w, doneSet := input(pl, set)
	defer doneSet()
	return findFirst(pl, "find_first_of", len(v), func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool {
			for _, x := range w {
				if eq(v[i], x) {
					return true
				}
			}
			return false
		})
	})
}

// IsSortedUntil returns the end of the longest sorted prefix of s.
func IsSortedUntil[T any](pl Plan, s []T, less func(T, T) bool) int {
	record("is_sorted_until", pl, len(s))
	if len(s) < 2 {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	r := findFirst(pl, "is_sorted_until", len(v)-1, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool { return less(v[i+1], v[i]) })
	})
	return r + 1
}

// IsHeapUntil returns the end of the longest prefix of s that is a max-heap
// under less.
func IsHeapUntil[T any](pl Plan, s []T, less func(T, T) bool) int {
	record("is_heap_until", pl, len(s))
	if len(s) < 2 {
		return len(s)
	}
	v, done := input(pl, s)
	defer done()
	r := findFirst(pl, "is_heap_until", len(v)-1, func(lo, hi int) int {
		return scanFirst(lo, hi, func(i int) bool {
			child := i + 1
			return less(v[(child-1)/2], v[child])
		})
	})
	return r + 1
}

// IsPartitioned reports whether every element satisfying pred precedes
// every element that does not.
func IsPartitioned[T any](pl Plan, s []T, pred func(T) bool) bool {
	record("is_partitioned", pl, len(s))
	first := FindIf(pl, s, func(x T) bool { return !pred(x) })
	if first >= len(s) {
		return true
	}
	return !AnyOf(pl, s[first+1:], pred)
}

// LexicographicalCompare reports whether a orders before b.
func LexicographicalCompare[T any](pl Plan, a, b []T, less func(T, T) bool) bool {
	record("lexicographical_compare", pl, min(len(a), len(b)))
	i := Mismatch(pl, a, b, func(x, y T) bool { return !less(x, y) && !less(y, x) })
	if i == min(len(a), len(b)) {
		return len(a) < len(b)
	}
	return less(a[i], b[i])
}
