package pattern

import (
	"sort"
	"sync/atomic"

	"github.com/23skdu/longbow-pstl/internal/parallel"
)

// SetKind selects the set operation run by SetOp.
type SetKind int

const (
	SetUnion SetKind = iota
	SetIntersection
	SetDifference
	SetSymmetricDifference
)

func (k SetKind) String() string {
	switch k {
	case SetUnion:
		return "set_union"
	case SetIntersection:
		return "set_intersection"
	case SetDifference:
		return "set_difference"
	default:
		return "set_symmetric_difference"
	}
}

// setSerial writes kind(a, b) to dst and returns the number written. Equal
// elements are matched one to one, as for multisets.
func setSerial[T any](kind SetKind, a, b, dst []T, less func(T, T) bool) int {
	i, j, k := 0, 0, 0
	emit := func(v T) {
		dst[k] = v
		k++
	}
	for i < len(a) && j < len(b) {
		switch {
		case less(a[i], b[j]):
			if kind != SetIntersection {
				emit(a[i])
			}
			i++
		case less(b[j], a[i]):
			if kind == SetUnion || kind == SetSymmetricDifference {
				emit(b[j])
			}
			j++
		default:
			if kind == SetUnion || kind == SetIntersection {
				emit(a[i])
			}
			i++
			j++
		}
	}
	if kind != SetIntersection {
		for ; i < len(a); i++ {
			emit(a[i])
		}
	}
	if kind == SetUnion || kind == SetSymmetricDifference {
		for ; j < len(b); j++ {
			emit(b[j])
		}
	}
	return k
}

func lowerBound[T any](s []T, v T, less func(T, T) bool) int {
	return sort.Search(len(s), func(i int) bool { return !less(s[i], v) })
}

// runAligned returns chunk boundaries over s moved forward so that no run
// of equal elements is split between two chunks.
func runAligned[T any](chunks []parallel.Chunk, s []T, less func(T, T) bool) []parallel.Chunk {
	out := make([]parallel.Chunk, 0, len(chunks))
	lo := 0
	for _, c := range chunks {
		hi := c.Hi
		for hi < len(s) && hi > 0 && !less(s[hi-1], s[hi]) {
			hi++
		}
		if hi <= lo {
			continue
		}
		out = append(out, parallel.Chunk{Index: len(out), Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

// SetOp writes the set operation kind over the sorted ranges a and b to
// dst and returns the number of elements written. Device plans run on the
// host.
//
// Split plans cut a into chunks that never divide a run of equal elements,
// give each chunk the part of b that sorts into it, run the serial
// operation per chunk into scratch space, and then copy the chunk results
// to their offsets in dst.
func SetOp[T any](pl Plan, kind SetKind, a, b, dst []T, less func(T, T) bool) int {
	record(kind.String(), pl, len(a)+len(b))
	pl = pl.Host()
	if len(a) == 0 || !pl.Split(len(a)+len(b)) {
		return setSerial(kind, a, b, dst, less)
	}

	chunks := runAligned(pl.Exec.Split(len(a)), a, less)
	bounds := make([]int, len(chunks)+1)
	for i, c := range chunks {
		if i > 0 {
			bounds[i] = lowerBound(b, a[c.Lo], less)
		}
	}
	bounds[len(chunks)] = len(b)

	parts := make([][]T, len(chunks))
	counts := make([]int, len(chunks))
	pl.Exec.Run(chunks, func(c parallel.Chunk) {
		sa, sb := a[c.Lo:c.Hi], b[bounds[c.Index]:bounds[c.Index+1]]
		buf := make([]T, len(sa)+len(sb))
		counts[c.Index] = setSerial(kind, sa, sb, buf, less)
		parts[c.Index] = buf
	})
	offsets, total := exclusiveSum(counts)
	pl.Exec.Run(chunks, func(c parallel.Chunk) {
		copy(dst[offsets[c.Index]:], parts[c.Index][:counts[c.Index]])
	})
	return total
}

func includesSerial[T any](a, b []T, less func(T, T) bool) bool {
	i := 0
	for _, x := range b {
		for i < len(a) && less(a[i], x) {
			i++
		}
		if i == len(a) || less(x, a[i]) {
			return false
		}
		i++
	}
	return true
}

// Includes reports whether every element of the sorted range b appears in
// the sorted range a, counting multiplicity.
func Includes[T any](pl Plan, a, b []T, less func(T, T) bool) bool {
	record("includes", pl, len(a)+len(b))
	pl = pl.Host()
	if len(b) == 0 {
		return true
	}
	if len(b) > len(a) {
		return false
	}
	if !pl.Split(len(b)) {
		return includesSerial(a, b, less)
	}

	chunks := runAligned(pl.Exec.Split(len(b)), b, less)
	bounds := make([]int, len(chunks)+1)
	for i, c := range chunks {
		if i > 0 {
			bounds[i] = lowerBound(a, b[c.Lo], less)
		}
	}
	bounds[len(chunks)] = len(a)

	var missing atomic.Bool
	pl.Exec.Run(chunks, func(c parallel.Chunk) {
		if missing.Load() {
			return
		}
		if !includesSerial(a[bounds[c.Index]:bounds[c.Index+1]], b[c.Lo:c.Hi], less) {
			missing.Store(true)
		}
	})
	return !missing.Load()
}
