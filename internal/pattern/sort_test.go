package pattern

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortExample(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := []int{5, 3, 1, 4, 1, 5, 9, 2, 6}
		Sort(pl, s, less)
		assert.Equal(t, []int{1, 1, 2, 3, 4, 5, 5, 6, 9}, s)
	})
}

func TestSortLarge(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		for _, n := range []int{2, 17, 255, 256, 257, 1000, 7777} {
			s := randInts(uint64(n), n, n)
			want := sortedCopy(s)
			Sort(pl, s, less)
			if diff := cmp.Diff(want, s); diff != "" {
				t.Fatalf("Sort n=%d (-want +got):\n%s", n, diff)
			}
		}
	})
}

func TestStableSortKeepsEqualOrder(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		keys := randInts(9, 5000, 20)
		s := make([]tagged, len(keys))
		for i, k := range keys {
			s[i] = tagged{key: k, seq: i}
		}
		StableSort(pl, s, func(a, b tagged) bool { return a.key < b.key })
		for i := 1; i < len(s); i++ {
			require.LessOrEqual(t, s[i-1].key, s[i].key)
			if s[i-1].key == s[i].key {
				require.Less(t, s[i-1].seq, s[i].seq)
			}
		}
	})
}

func TestPartialSort(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		src := randInts(21, 2000, 100000)
		want := sortedCopy(src)

		s := slices.Clone(src)
		PartialSort(pl, s, 100, less)
		assert.Equal(t, want[:100], s[:100])
		assert.Equal(t, want, sortedCopy(s))

		dst := make([]int, 50)
		assert.Equal(t, 50, PartialSortCopy(pl, src, dst, less))
		assert.Equal(t, want[:50], dst)

		big := make([]int, 3000)
		assert.Equal(t, 2000, PartialSortCopy(pl, src, big, less))
		assert.Equal(t, want, big[:2000])
	})
}

func TestNthElement(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		src := randInts(33, 5000, 300)
		want := sortedCopy(src)
		for _, nth := range []int{0, 1, 2499, 4998, 4999} {
			s := slices.Clone(src)
			NthElement(pl, s, nth, less)
			require.Equal(t, want[nth], s[nth], "nth=%d", nth)
			for i := range nth {
				require.LessOrEqual(t, s[i], s[nth])
			}
			for i := nth + 1; i < len(s); i++ {
				require.GreaterOrEqual(t, s[i], s[nth])
			}
		}
	})
}

func TestMergeExample(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		dst := make([]int, 6)
		assert.Equal(t, 6, Merge(pl, []int{1, 3, 5}, []int{2, 4, 6}, dst, less))
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, dst)
	})
}

func TestMergeStable(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		mk := func(seed uint64, n, tag int) []tagged {
			keys := sortedCopy(randInts(seed, n, 50))
			out := make([]tagged, n)
			for i, k := range keys {
				out[i] = tagged{key: k, seq: tag + i}
			}
			return out
		}
		a, b := mk(1, 1500, 0), mk(2, 1100, 10000)
		dst := make([]tagged, len(a)+len(b))
		Merge(pl, a, b, dst, func(x, y tagged) bool { return x.key < y.key })
		for i := 1; i < len(dst); i++ {
			require.LessOrEqual(t, dst[i-1].key, dst[i].key)
			if dst[i-1].key == dst[i].key {
				require.Less(t, dst[i-1].seq, dst[i].seq, "ties must keep a before b")
			}
		}

		s := append(sortedCopy(randInts(4, 700, 90)), sortedCopy(randInts(5, 900, 90))...)
		want := sortedCopy(s)
		InplaceMerge(pl, s, 700, less)
		assert.Equal(t, want, s)
	})
}

func TestCoRank(t *testing.T) {
	a, b := []int{1, 3, 3, 5}, []int{2, 3, 4}
	merged := make([]int, 7)
	mergeSerial(a, b, merged, less)
	assert.Equal(t, []int{1, 2, 3, 3, 3, 4, 5}, merged)
	for k, want := range []int{0, 1, 1, 2, 3, 3, 3, 4} {
		assert.Equal(t, want, coRank(k, a, b, less), "k=%d", k)
	}
}
