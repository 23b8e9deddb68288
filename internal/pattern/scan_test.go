package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plus(a, b int) int { return a + b }
func ident(v int) int   { return v }

func TestExclusiveScanExample(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		src := []int{1, 2, 3, 4}
		dst := make([]int, 4)
		Scan(pl, src, dst, ScanOp[int, int]{Op: plus, Transform: ident, HasInit: true})
		assert.Equal(t, []int{0, 1, 3, 6}, dst)
	})
}

func TestScanMatchesSerialPrefix(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		// Sizes 0..16 and then growing by a factor of about 3.14.
		sizes := []int{}
		for n := 0; n <= 16; n++ {
			sizes = append(sizes, n)
		}
		for n := 16.0; n < 20000; n *= 3.1415 {
			sizes = append(sizes, int(n))
		}
		for _, n := range sizes {
			src := randInts(uint64(n), n, 100)

			inc := make([]int, n)
			Scan(pl, src, inc, ScanOp[int, int]{Op: plus, Transform: ident, Inclusive: true})
			exc := make([]int, n)
			Scan(pl, src, exc, ScanOp[int, int]{Op: plus, Transform: ident, Init: 10, HasInit: true})
			incInit := make([]int, n)
			Scan(pl, src, incInit, ScanOp[int, int]{Op: plus, Transform: func(v int) int { return 2 * v }, Init: 1, HasInit: true, Inclusive: true})

			acc := 0
			for i, v := range src {
				require.Equal(t, 10+acc, exc[i], "exclusive n=%d i=%d", n, i)
				acc += v
				require.Equal(t, acc, inc[i], "inclusive n=%d i=%d", n, i)
				require.Equal(t, 1+2*acc, incInit[i], "inclusive init n=%d i=%d", n, i)
			}
		}
	})
}

func TestScanInPlace(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := make([]int, 1000)
		for i := range s {
			s[i] = 1
		}
		Scan(pl, s, s, ScanOp[int, int]{Op: plus, Transform: ident, HasInit: true})
		for i, v := range s {
			require.Equal(t, i, v)
		}
	})
}

func TestAdjacentDifference(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		src := make([]int, 1200)
		for i := range src {
			src[i] = i * i
		}
		dst := make([]int, 1200)
		assert.Equal(t, 1200, AdjacentDifference(pl, src, dst, func(a, b int) int { return a - b }))
		assert.Equal(t, 0, dst[0])
		for i := 1; i < len(dst); i++ {
			require.Equal(t, 2*i-1, dst[i])
		}
		assert.Equal(t, 0, AdjacentDifference(pl, nil, nil, func(a, b int) int { return a - b }))
	})
}
