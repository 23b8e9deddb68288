package pattern

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-pstl/device"
)

func TestWalk(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(1001)
		Walk1(pl, s, func(v *int) { *v *= 2 })
		for i, v := range s {
			require.Equal(t, 2*i, v)
		}

		a, b := ramp(500), make([]int, 600)
		Walk2(pl, a, b, func(x, y *int) { *y = *x + 1 })
		assert.Equal(t, 500, b[499])
		assert.Equal(t, 0, b[500])

		c := make([]int, 500)
		Walk3(pl, a, b, c, func(x, y, z *int) { *z = *x + *y })
		assert.Equal(t, 2*499+1, c[499])
	})
}

func TestTransformCopyFill(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		src := ramp(777)
		dst := make([]float64, 777)
		assert.Equal(t, 777, Transform(pl, src, dst, func(v int) float64 { return float64(v) / 2 }))
		assert.Equal(t, 388.0, dst[776])

		sum := make([]int, 777)
		Transform2(pl, src, src, sum, func(x, y int) int { return x * y })
		assert.Equal(t, 776*776, sum[776])

		out := make([]int, 800)
		assert.Equal(t, 777, Copy(pl, src, out))
		if diff := cmp.Diff(src, out[:777]); diff != "" {
			t.Errorf("Copy mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 0, out[777])

		Fill(pl, out, 7)
		for _, v := range out {
			require.Equal(t, 7, v)
		}

		var calls atomic.Int64
		Generate(pl, out, func() int { calls.Add(1); return 3 })
		assert.Equal(t, int64(800), calls.Load())
		assert.Equal(t, 3, out[799])

		x, y := ramp(300), make([]int, 300)
		assert.Equal(t, 300, SwapRanges(pl, x, y))
		assert.Equal(t, 0, x[299])
		assert.Equal(t, 299, y[299])
	})
}

func TestTransformInPlace(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(513)
		Transform(pl, s, s, func(v int) int { return -v })
		assert.Equal(t, -512, s[512])
	})
}

func TestEmptyRanges(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		var empty []int
		Walk1(pl, empty, func(*int) { t.Fatal("called on empty range") })
		Fill(pl, empty, 1)
		assert.Equal(t, 0, Copy(pl, empty, empty))
		assert.Equal(t, 0, FindIf(pl, empty, func(int) bool { return true }))
		assert.Equal(t, 5, Reduce(pl, empty, 5, func(a, b int) int { return a + b }, nil))
		assert.Equal(t, 0, Scan(pl, empty, empty, ScanOp[int, int]{Op: func(a, b int) int { return a + b }, Transform: func(v int) int { return v }, Inclusive: true}))
		Sort(pl, empty, less)
		assert.Equal(t, 0, RemoveIf(pl, empty, func(int) bool { return true }))
		assert.Equal(t, 0, Rotate(pl, empty, 0))
	})
}

func TestKernelFailurePanicsWithBackendError(t *testing.T) {
	sentinel := errors.New("bad element")
	for _, np := range testPlans(t) {
		if np.plan.Backend.String() != "device" {
			continue
		}
		t.Run(np.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				var kerr *device.KernelError
				require.ErrorAs(t, err, &kerr)
				assert.ErrorIs(t, err, sentinel)
			}()
			Walk1(np.plan, ramp(100), func(v *int) {
				if *v == 42 {
					panic(sentinel)
				}
			})
			t.Fatal("Walk1 returned")
		})
	}
}

func TestParallelFailureKeepsPanicValue(t *testing.T) {
	pl := testPlans(t)[2].plan
	assert.PanicsWithValue(t, "stop", func() {
		Walk1(pl, ramp(1000), func(v *int) {
			if *v == 999 {
				panic("stop")
			}
		})
	})
}
