package pattern

import (
	"github.com/23skdu/longbow-pstl/internal/parallel"
)

// selectInto copies the elements src[i] with keep(i) to the front of dst,
// preserving their order, and returns how many were copied.
//
// Split plans count kept elements per block, turn the counts into output
// offsets, and then let every block write its own disjoint slice of dst.
func selectInto[T any](pl Plan, name string, src, dst []T, keep func(i int) bool) int {
	n := len(src)
	chunks, run := partition(pl, name, n)
	if len(chunks) <= 1 {
		k := 0
		for i := range src {
			if keep(i) {
				dst[k] = src[i]
				k++
			}
		}
		return k
	}

	counts := make([]int, len(chunks))
	run(func(c parallel.Chunk) {
		k := 0
		for i := c.Lo; i < c.Hi; i++ {
			if keep(i) {
				k++
			}
		}
		counts[c.Index] = k
	})
	offsets, total := exclusiveSum(counts)
	run(func(c parallel.Chunk) {
		k := offsets[c.Index]
		for i := c.Lo; i < c.Hi; i++ {
			if keep(i) {
				dst[k] = src[i]
				k++
			}
		}
	})
	return total
}

func exclusiveSum(counts []int) ([]int, int) {
	offsets := make([]int, len(counts))
	total := 0
	for i, c := range counts {
		offsets[i] = total
		total += c
	}
	return offsets, total
}

// CopyIf copies the elements satisfying pred to dst and returns how many.
func CopyIf[T any](pl Plan, src, dst []T, pred func(T) bool) int {
	record("copy_if", pl, len(src))
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	return selectInto(pl, "copy_if", vs, vd, func(i int) bool { return pred(vs[i]) })
}

// UniqueCopy copies the first element of every run of equal elements.
func UniqueCopy[T any](pl Plan, src, dst []T, eq func(T, T) bool) int {
	record("unique_copy", pl, len(src))
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	return selectInto(pl, "unique_copy", vs, vd, func(i int) bool {
		return i == 0 || !eq(vs[i-1], vs[i])
	})
}

// compact keeps the elements of s with keep(i) at the front of s in order
// and returns their number. Elements past the result are left in a valid
// but unspecified state.
func compact[T any](pl Plan, name string, s []T, keep func(v []T, i int) bool) int {
	v, done := output(pl, s)
	defer done()
	if !pl.Split(len(v)) && !isDevice(pl) {
		k := 0
		for i := range v {
			if keep(v, i) {
				v[k] = v[i]
				k++
			}
		}
		return k
	}
	tmp, release := scratch[T](pl, len(v))
	defer release()
	k := selectInto(pl, name, v, tmp, func(i int) bool { return keep(v, i) })
	each(pl, name+"_back", k, func(lo, hi int) {
		copy(v[lo:hi], tmp[lo:hi])
	})
	return k
}

// RemoveIf drops the elements satisfying pred and returns the new length.
func RemoveIf[T any](pl Plan, s []T, pred func(T) bool) int {
	record("remove_if", pl, len(s))
	return compact(pl, "remove_if", s, func(v []T, i int) bool { return !pred(v[i]) })
}

// Unique keeps the first element of every run of equal elements and
// returns the new length.
func Unique[T any](pl Plan, s []T, eq func(T, T) bool) int {
	record("unique", pl, len(s))
	if pl.Split(len(s)) || isDevice(pl) {
		return compact(pl, "unique", s, func(v []T, i int) bool { return i == 0 || !eq(v[i-1], v[i]) })
	}
	if len(s) == 0 {
		return 0
	}
	k := 0
	for i := 1; i < len(s); i++ {
		if !eq(s[k], s[i]) {
			k++
			s[k] = s[i]
		}
	}
	return k + 1
}

// PartitionCopy copies elements satisfying pred to dstTrue and the rest to
// dstFalse, both in order, and returns the two counts.
func PartitionCopy[T any](pl Plan, src, dstTrue, dstFalse []T, pred func(T) bool) (int, int) {
	record("partition_copy", pl, len(src))
	pl = pl.Host()
	n := len(src)
	chunks, run := partition(pl, "partition_copy", n)
	if len(chunks) <= 1 {
		t, f := 0, 0
		for _, x := range src {
			if pred(x) {
				dstTrue[t] = x
				t++
			} else {
				dstFalse[f] = x
				f++
			}
		}
		return t, f
	}

	flags := make([]bool, n)
	counts := make([]int, len(chunks))
	run(func(c parallel.Chunk) {
		k := 0
		for i := c.Lo; i < c.Hi; i++ {
			if flags[i] = pred(src[i]); flags[i] {
				k++
			}
		}
		counts[c.Index] = k
	})
	offsets, total := exclusiveSum(counts)
	run(func(c parallel.Chunk) {
		t := offsets[c.Index]
		f := c.Lo - t
		for i := c.Lo; i < c.Hi; i++ {
			if flags[i] {
				dstTrue[t] = src[i]
				t++
			} else {
				dstFalse[f] = src[i]
				f++
			}
		}
	})
	return total, n - total
}

// StablePartition moves the elements satisfying pred before the others,
// keeping the relative order within both groups, and returns the size of
// the first group. Device plans run on the host.
func StablePartition[T any](pl Plan, s []T, pred func(T) bool) int {
	record("stable_partition", pl, len(s))
	pl = pl.Host()
	n := len(s)
	if n == 0 {
		return 0
	}
	tmpTrue, tmpFalse := make([]T, n), make([]T, n)
	t, f := PartitionCopy(pl, s, tmpTrue, tmpFalse, pred)
	Copy(pl, tmpTrue[:t], s[:t])
	Copy(pl, tmpFalse[:f], s[t:])
	return t
}

// Partition moves the elements satisfying pred before the others and
// returns the size of the first group. Serial plans do it in place without
// keeping order; split plans share StablePartition.
func Partition[T any](pl Plan, s []T, pred func(T) bool) int {
	record("partition", pl, len(s))
	if pl.Split(len(s)) || isDevice(pl) {
		return StablePartition(pl, s, pred)
	}
	i, j := 0, len(s)-1
	for {
		for i <= j && pred(s[i]) {
			i++
		}
		for i <= j && !pred(s[j]) {
			j--
		}
		if i >= j {
			return i
		}
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}
