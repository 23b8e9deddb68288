package pattern

import (
	"math/bits"
	"slices"

	"github.com/23skdu/longbow-pstl/internal/parallel"
)

func cmpOf[T any](less func(T, T) bool) func(a, b T) int {
	return func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return 0
	}
}

func leafSort[T any](s []T, less func(T, T) bool, stable bool) {
	if stable {
		slices.SortStableFunc(s, cmpOf(less))
		return
	}
	slices.SortFunc(s, cmpOf(less))
}

// Sort orders s by less. Equal elements may be reordered.
func Sort[T any](pl Plan, s []T, less func(T, T) bool) {
	record("sort", pl, len(s))
	sortWith(pl, s, less, false)
}

// StableSort orders s by less keeping the order of equal elements.
func StableSort[T any](pl Plan, s []T, less func(T, T) bool) {
	record("stable_sort", pl, len(s))
	sortWith(pl, s, less, true)
}

func sortWith[T any](pl Plan, s []T, less func(T, T) bool, stable bool) {
	switch {
	case len(s) < 2:
	case isDevice(pl):
		deviceSort(pl, s, less)
	case pl.Split(len(s)):
		buf := make([]T, len(s))
		leaf := max(pl.Exec.GrainSize(), len(s)/pl.Exec.MaxChunks(len(s)))
		mergeSort(pl, s, buf, less, stable, leaf)
	default:
		leafSort(s, less, stable)
	}
}

// mergeSort sorts both halves of s concurrently and merges them through
// buf, which has the length of s.
func mergeSort[T any](pl Plan, s, buf []T, less func(T, T) bool, stable bool, leaf int) {
	if len(s) <= leaf {
		leafSort(s, less, stable)
		return
	}
	mid := len(s) / 2
	pl.Exec.Invoke(
		func() { mergeSort(pl, s[:mid], buf[:mid], less, stable, leaf) },
		func() { mergeSort(pl, s[mid:], buf[mid:], less, stable, leaf) },
	)
	mergeParallel(pl, s[:mid], s[mid:], buf, less)
	pl.Exec.For(len(s), func(c parallel.Chunk) {
		copy(s[c.Lo:c.Hi], buf[c.Lo:c.Hi])
	})
}

// deviceSort sorts each work-group block and then merges runs of doubling
// width, one kernel per pass, ping-ponging between s and a device buffer.
func deviceSort[T any](pl Plan, s []T, less func(T, T) bool) {
	n := len(s)
	v, done := output(pl, s)
	defer done()
	tmp, release := scratch[T](pl, n)
	defer release()

	chunks, run := partition(pl, "sort_block", n)
	run(func(c parallel.Chunk) {
		leafSort(v[c.Lo:c.Hi], less, true)
	})

	src, dst := v, tmp
	for width := chunks[0].Len(); width < n; width *= 2 {
		each(pl, "sort_merge", n, func(lo, hi int) {
			mergeRuns(src, dst, lo, hi, width, less)
		})
		src, dst = dst, src
	}
	if &src[0] != &v[0] {
		each(pl, "sort_copy", n, func(lo, hi int) {
			copy(v[lo:hi], src[lo:hi])
		})
	}
}

// mergeRuns writes dst[lo:hi] of one merge pass: src holds sorted runs of
// width elements and each adjacent pair merges into one run of 2*width.
func mergeRuns[T any](src, dst []T, lo, hi, width int, less func(T, T) bool) {
	n := len(src)
	for start := lo - lo%(2*width); start < hi; start += 2 * width {
		mid, end := min(start+width, n), min(start+2*width, n)
		a, b := src[start:mid], src[mid:end]
		olo, ohi := max(lo, start)-start, min(hi, end)-start
		i0, i1 := coRank(olo, a, b, less), coRank(ohi, a, b, less)
		mergeSerial(a[i0:i1], b[olo-i0:ohi-i1], dst[start+olo:start+ohi], less)
	}
}

// coRank returns how many of the first k outputs of a stable merge of a
// and b come from a.
func coRank[T any](k int, a, b []T, less func(T, T) bool) int {
	lo, hi := max(0, k-len(b)), min(k, len(a))
	for lo < hi {
		i := int(uint(lo+hi) >> 1)
		j := k - i
		if j > 0 && !less(b[j-1], a[i]) {
			lo = i + 1
		} else {
			hi = i
		}
	}
	return lo
}

// mergeSerial merges a and b into dst, taking from a on ties.
func mergeSerial[T any](a, b, dst []T, less func(T, T) bool) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if less(b[j], a[i]) {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}

func mergeParallel[T any](pl Plan, a, b, dst []T, less func(T, T) bool) {
	n := len(a) + len(b)
	pl.Exec.For(n, func(c parallel.Chunk) {
		i0, i1 := coRank(c.Lo, a, b, less), coRank(c.Hi, a, b, less)
		mergeSerial(a[i0:i1], b[c.Lo-i0:c.Hi-i1], dst[c.Lo:c.Hi], less)
	})
}

// Merge merges the sorted ranges a and b into dst and returns
// len(a)+len(b). Equal elements of a precede those of b.
func Merge[T any](pl Plan, a, b, dst []T, less func(T, T) bool) int {
	n := len(a) + len(b)
	record("merge", pl, n)
	dst = dst[:n]
	va, doneA := input(pl, a)
	defer doneA()
	vb, doneB := input(pl, b)
	defer doneB()
	vd, doneD := output(pl, dst)
	defer doneD()
	each(pl, "merge", n, func(lo, hi int) {
		i0, i1 := coRank(lo, va, vb, less), coRank(hi, va, vb, less)
		mergeSerial(va[i0:i1], vb[lo-i0:hi-i1], vd[lo:hi], less)
	})
	return n
}

// InplaceMerge merges the sorted halves s[:mid] and s[mid:].
func InplaceMerge[T any](pl Plan, s []T, mid int, less func(T, T) bool) {
	record("inplace_merge", pl, len(s))
	if mid <= 0 || mid >= len(s) {
		return
	}
	tmp := make([]T, len(s))
	Merge(pl, s[:mid], s[mid:], tmp, less)
	Copy(pl, tmp, s)
}

// PartialSort places the mid smallest elements, sorted, at the front of s.
// The order of the rest is unspecified.
func PartialSort[T any](pl Plan, s []T, mid int, less func(T, T) bool) {
	record("partial_sort", pl, len(s))
	mid = min(mid, len(s))
	if mid <= 0 {
		return
	}
	if isDevice(pl) || pl.Split(len(s)) {
		sortWith(pl, s, less, false)
		return
	}
	h := s[:mid]
	for i := mid/2 - 1; i >= 0; i-- {
		siftDown(h, i, less)
	}
	for i := mid; i < len(s); i++ {
		if less(s[i], h[0]) {
			h[0], s[i] = s[i], h[0]
			siftDown(h, 0, less)
		}
	}
	for end := mid - 1; end > 0; end-- {
		h[0], h[end] = h[end], h[0]
		siftDown(h[:end], 0, less)
	}
}

func siftDown[T any](h []T, i int, less func(T, T) bool) {
	for {
		c := 2*i + 1
		if c >= len(h) {
			return
		}
		if c+1 < len(h) && less(h[c], h[c+1]) {
			c++
		}
		if !less(h[i], h[c]) {
			return
		}
		h[i], h[c] = h[c], h[i]
		i = c
	}
}

// PartialSortCopy copies the min(len(src), len(dst)) smallest elements of
// src, sorted, into dst and returns that count.
func PartialSortCopy[T any](pl Plan, src, dst []T, less func(T, T) bool) int {
	record("partial_sort_copy", pl, len(src))
	r := min(len(src), len(dst))
	if r == 0 {
		return 0
	}
	tmp := make([]T, len(src))
	Copy(pl.Host(), src, tmp)
	PartialSort(pl, tmp, r, less)
	Copy(pl.Host(), tmp[:r], dst)
	return r
}

// NthElement rearranges s so that s[nth] is the element a full sort would
// put there, with nothing greater before it and nothing smaller after.
func NthElement[T any](pl Plan, s []T, nth int, less func(T, T) bool) {
	record("nth_element", pl, len(s))
	if nth < 0 || nth >= len(s) {
		return
	}
	pl = pl.Host()
	lo, hi := 0, len(s)
	for pl.Split(hi - lo) {
		pivot := median3(s[lo], s[lo+(hi-lo)/2], s[hi-1], less)
		below := StablePartition(pl, s[lo:hi], func(x T) bool { return less(x, pivot) })
		if nth < lo+below {
			hi = lo + below
			continue
		}
		equal := StablePartition(pl, s[lo+below:hi], func(x T) bool { return !less(pivot, x) })
		if nth < lo+below+equal {
			return
		}
		lo += below + equal
	}
	selectNth(s[lo:hi], nth-lo, less)
}

func median3[T any](a, b, c T, less func(T, T) bool) T {
	if less(b, a) {
		a, b = b, a
	}
	if less(c, b) {
		b = c
		if less(b, a) {
			b = a
		}
	}
	return b
}

// selectNth is introselect: three-way quickselect that sorts the range
// outright once it has recursed too deep.
func selectNth[T any](s []T, nth int, less func(T, T) bool) {
	lo, hi := 0, len(s)
	depth := 2 * bits.Len(uint(len(s)))
	for hi-lo > 16 {
		if depth == 0 {
			leafSort(s[lo:hi], less, false)
			return
		}
		depth--
		pivot := median3(s[lo], s[lo+(hi-lo)/2], s[hi-1], less)
		lt, gt := partition3(s[lo:hi], pivot, less)
		switch {
		case nth < lo+lt:
			hi = lo + lt
		case nth >= lo+gt:
			lo += gt
		default:
			return
		}
	}
	leafSort(s[lo:hi], less, false)
}

// partition3 splits s into elements below, equal to and above pivot and
// returns the bounds of the middle group.
func partition3[T any](s []T, pivot T, less func(T, T) bool) (int, int) {
	lt, i, gt := 0, 0, len(s)
	for i < gt {
		switch {
		case less(s[i], pivot):
			s[lt], s[i] = s[i], s[lt]
			lt++
			i++
		case less(pivot, s[i]):
			gt--
			s[i], s[gt] = s[gt], s[i]
		default:
			i++
		}
	}
	return lt, gt
}
