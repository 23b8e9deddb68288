package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindIfLeftmostWins(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := make([]int, 5000)
		for _, i := range []int{4999, 1234, 3000, 1235, 77 + 1200} {
			s[i] = 1
		}
		assert.Equal(t, 1234, FindIf(pl, s, func(v int) bool { return v == 1 }))
		assert.Equal(t, 5000, FindIf(pl, s, func(v int) bool { return v == 2 }))
		assert.True(t, AnyOf(pl, s, func(v int) bool { return v == 1 }))
		assert.False(t, AnyOf(pl, s, func(v int) bool { return v < 0 }))
	})
}

func TestMismatchAndAdjacentFind(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		a, b := ramp(900), ramp(1000)
		assert.Equal(t, 900, Mismatch(pl, a, b, eq))
		b[640] = -1
		assert.Equal(t, 640, Mismatch(pl, a, b, eq))

		s := ramp(1000)
		assert.Equal(t, 1000, AdjacentFind(pl, s, eq))
		s[701] = 700
		s[901] = 900
		assert.Equal(t, 700, AdjacentFind(pl, s, eq))
		assert.Equal(t, 1, AdjacentFind(pl, []int{1}, eq))
	})
}

func TestSearchFamily(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := make([]int, 2000)
		for i := range s {
			s[i] = i % 100
		}
		sub := []int{10, 11, 12}
		assert.Equal(t, 10, Search(pl, s, sub, eq))
		assert.Equal(t, 1910, FindEnd(pl, s, sub, eq))
		assert.Equal(t, 0, Search(pl, s, nil, eq))
		assert.Equal(t, 2000, FindEnd(pl, s, nil, eq))
		assert.Equal(t, 2000, Search(pl, s, []int{5, 7}, eq))
		assert.Equal(t, 2000, FindEnd(pl, s, []int{5, 7}, eq))

		s[1500], s[1501], s[1502] = 7, 7, 7
		s[600], s[601] = 7, 7
		assert.Equal(t, 1500, SearchN(pl, s, 3, 7, eq))
		assert.Equal(t, 0, SearchN(pl, s, 0, 7, eq))
		assert.Equal(t, 2000, SearchN(pl, s, 4, 7, eq))

		assert.Equal(t, 42, FindFirstOf(pl, s, []int{99, 42}, eq))
		assert.Equal(t, 2000, FindFirstOf(pl, s, []int{-3}, eq))
	})
}

func TestSortedAndHeapPrefixes(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(1500)
		assert.Equal(t, 1500, IsSortedUntil(pl, s, less))
		s[1100] = 0
		assert.Equal(t, 1100, IsSortedUntil(pl, s, less))

		heap := make([]int, 1023)
		for i := range heap {
			heap[i] = 2000 - i
		}
		assert.Equal(t, 1023, IsHeapUntil(pl, heap, less))
		heap[800] = 5000
		assert.Equal(t, 800, IsHeapUntil(pl, heap, less))
	})
}

func TestIsPartitioned(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		s := ramp(1000)
		below := func(v int) bool { return v < 600 }
		assert.True(t, IsPartitioned(pl, s, below))
		s[900] = 1
		assert.False(t, IsPartitioned(pl, s, below))
		assert.True(t, IsPartitioned(pl, nil, below))
	})
}

func TestLexicographicalCompare(t *testing.T) {
	forEachPlan(t, func(t *testing.T, pl Plan) {
		a, b := ramp(800), ramp(800)
		assert.False(t, LexicographicalCompare(pl, a, b, less))
		assert.True(t, LexicographicalCompare(pl, a[:799], b, less))
		b[500] = 1000
		assert.True(t, LexicographicalCompare(pl, a, b, less))
		assert.False(t, LexicographicalCompare(pl, b, a, less))
	})
}
