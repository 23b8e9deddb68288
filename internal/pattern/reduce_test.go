package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/23skdu/longbow-pstl/internal/simd"
)

func TestReduce(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(10001)
		add := func(a, b int) int { return a + b }
		assert.Equal(t, 10000*10001/2+7, Reduce(pl, s, 7, add, nil))
		assert.Equal(t, 10000*10001/2, Reduce(pl, s, 0, add, simd.Sum[int]))

		f := make([]float64, 4096)
		for i := range f {
			f[i] = 0.5
		}
		assert.Equal(t, 2048.0, Reduce(pl, f, 0, func(a, b float64) float64 { return a + b }, simd.Sum[float64]))
	})
}

func TestTransformReduce(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(3000)
		sq := TransformReduce(pl, s, int64(0), func(a, b int64) int64 { return a + b }, func(v int) int64 { return int64(v) * int64(v) })
		want := int64(0)
		for _, v := range s {
			want += int64(v) * int64(v)
		}
		assert.Equal(t, want, sq)

		dot := TransformReduce2(pl, s, s, 0, func(a, b int) int { return a + b }, func(x, y int) int { return x * y }, nil)
		assert.Equal(t, int(want), dot)
		assert.Equal(t, int(want), TransformReduce2(pl, s, s, 0, plus, nil, simd.Dot[int]))
	})
}

func TestCountAndExtrema(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := make([]int, 4000)
		for i := range s {
			s[i] = i % 10
		}
		assert.Equal(t, 400, Count(pl, s, func(v int) bool { return v == 3 }))

		s[2500], s[3100] = -5, -5
		s[1000], s[3900] = 50, 50
		assert.Equal(t, 2500, MinElement(pl, s, less))
		assert.Equal(t, 1000, MaxElement(pl, s, less))
		lo, hi := MinMaxElement(pl, s, less)
		assert.Equal(t, 2500, lo)
		assert.Equal(t, 3900, hi)

		lo, hi = MinMaxElement(pl, []int{}, less)
		assert.Equal(t, 0, lo)
		assert.Equal(t, 0, hi)
	})
}
