package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOps(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		a := sortedCopy(randInts(1, 3000, 400))
		b := sortedCopy(randInts(2, 2000, 500))
		for _, kind := range []SetKind{SetUnion, SetIntersection, SetDifference, SetSymmetricDifference} {
			t.Run(kind.String(), func(t *testing.T) {
				dst := make([]int, len(a)+len(b))
				n := SetOp(pl, kind, a, b, dst, less)
				assert.Equal(t, multisetOp(kind, a, b), dst[:n])

				n = SetOp(pl, kind, nil, b, dst, less)
				assert.Equal(t, multisetOp(kind, nil, b), dst[:n])
			})
		}
	})
}

// multisetOp computes the set operation by counting occurrences of every
// distinct value.
func multisetOp(kind SetKind, a, b []int) []int {
	ca, cb := map[int]int{}, map[int]int{}
	for _, v := range a {
		ca[v]++
	}
	for _, v := range b {
		cb[v]++
	}
	distinct := map[int]bool{}
	var keys []int
	for _, v := range append(append([]int{}, a...), b...) {
		if !distinct[v] {
			distinct[v] = true
			keys = append(keys, v)
		}
	}
	keys = sortedCopy(keys)
	out := []int{}
	for _, v := range keys {
		x, y := ca[v], cb[v]
		var k int
		switch kind {
		case SetUnion:
			k = max(x, y)
		case SetIntersection:
			k = min(x, y)
		case SetDifference:
			k = max(0, x-y)
		case SetSymmetricDifference:
			k = max(x-y, y-x)
		}
		for range k {
			out = append(out, v)
		}
	}
	return out
}

func TestIncludes(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		a := sortedCopy(randInts(8, 4000, 300))
		var b []int
		for i := 0; i < len(a); i += 3 {
			b = append(b, a[i])
		}
		assert.True(t, Includes(pl, a, b, less))
		assert.True(t, Includes(pl, a, nil, less))
		assert.True(t, Includes(pl, a, a, less))
		assert.False(t, Includes(pl, b, a, less))

		extra := append(append([]int{}, b...), 1000)
		assert.False(t, Includes(pl, a, extra, less))

		// One more copy of a[0] than a holds.
		copies := Count(pl, a, func(v int) bool { return v == a[0] })
		more := make([]int, copies+1)
		for i := range more {
			more[i] = a[0]
		}
		assert.False(t, Includes(pl, a, more, less))
	})
}
