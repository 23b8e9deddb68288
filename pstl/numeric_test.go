package pstl

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/23skdu/longbow-pstl/execution"
)

func TestReductions(t *testing.T) {
	for _, n := range testSizes {
		s := randInts(uint64(n)+3, n, 1000)
		want := 0
		for _, v := range s {
			want += v
		}
		forEachPolicy(t, func(t *testing.T, p execution.Policy) {
			assert.Equal(t, want, Reduce(p, s))
			assert.Equal(t, want+5, ReduceFunc(p, s, 5, func(a, b int) int { return a + b }))
			assert.Equal(t, 2*want, TransformReduce(p, s, 0,
				func(a, b int) int { return a + b },
				func(v int) int { return 2 * v }))
			assert.Equal(t, InnerProduct(execution.Seq, s, s, 1), InnerProduct(p, s, s, 1))
			assert.Equal(t, n, TransformReduce2(p, s, s, 0,
				func(a, b int) int { return a + b },
				func(x, y int) int {
					if x == y {
						return 1
					}
					return 0
				}))
		})
	}
}

func TestReduceFloat(t *testing.T) {
	s := make([]float64, 10_001)
	for i := range s {
		s[i] = 0.5
	}
	forEachPolicy(t, func(t *testing.T, p execution.Policy) {
		assert.InDelta(t, 5000.5, Reduce(p, s), 1e-9)
		assert.InDelta(t, 2500.25, InnerProduct(p, s, s, 0), 1e-9)
	})
}

func TestScans(t *testing.T) {
	for _, n := range testSizes {
		src := randInts(uint64(n)+4, n, 100)
		incl := make([]int, n)
		excl := make([]int, n)
		acc := 0
		for i, v := range src {
			excl[i] = acc + 10
			acc += v
			incl[i] = acc
		}
		forEachPolicy(t, func(t *testing.T, p execution.Policy) {
			dst := make([]int, n)
			assert.Equal(t, n, InclusiveScan(p, src, dst))
			if diff := cmp.Diff(incl, dst); diff != "" {
				t.Errorf("inclusive scan (-want +got):\n%s", diff)
			}
			ExclusiveScan(p, src, dst, 10)
			if diff := cmp.Diff(excl, dst); diff != "" {
				t.Errorf("exclusive scan (-want +got):\n%s", diff)
			}

			inplace := slices.Clone(src)
			InclusiveScanInit(p, inplace, inplace, func(a, b int) int { return a + b }, 10)
			for i := range inplace {
				assert.Equal(t, incl[i]+10, inplace[i])
			}

			doubled := make([]int, n)
			TransformExclusiveScan(p, src, doubled, 20, func(a, b int) int { return a + b },
				func(v int) int { return 2 * v })
			for i := range doubled {
				assert.Equal(t, 2*excl[i], doubled[i])
			}
			TransformInclusiveScan(p, src, doubled, func(a, b int) int { return a + b },
				func(v int) int { return 2 * v })
			for i := range doubled {
				assert.Equal(t, 2*incl[i], doubled[i])
			}
		})
	}
}

func TestScanNonCommutative(t *testing.T) {
	// String concatenation is associative but not commutative, so any
	// reordering of the blocks shows up in the output.
	src := make([]string, 5000)
	for i := range src {
		src[i] = string(rune('a' + i%26))
	}
	want := make([]string, len(src))
	acc := ""
	for i, v := range src {
		acc += v
		want[i] = acc
	}
	concat := func(a, b string) string { return a + b }
	forEachPolicy(t, func(t *testing.T, p execution.Policy) {
		dst := make([]string, len(src))
		InclusiveScanFunc(p, src, dst, concat)
		assert.Equal(t, want[len(want)-1], dst[len(dst)-1])
		assert.Equal(t, want[100], dst[100])
	})
}

func TestAdjacentDifference(t *testing.T) {
	forEachPolicy(t, func(t *testing.T, p execution.Policy) {
		dst := make([]int, 5)
		assert.Equal(t, 5, AdjacentDifference(p, []int{1, 4, 9, 16, 25}, dst))
		assert.Equal(t, []int{1, 3, 5, 7, 9}, dst)
		assert.Equal(t, 0, AdjacentDifference(p, nil, dst))

		AdjacentDifferenceFunc(p, []int{2, 3, 4}, dst, func(a, b int) int { return a * b })
		assert.Equal(t, []int{2, 6, 12}, dst[:3])
	})
}
