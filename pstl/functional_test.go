package pstl

import (
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/23skdu/longbow-pstl/execution"
)

func TestPredicates(t *testing.T) {
	assert.True(t, EqualTo(3, 3))
	assert.True(t, Less(1, 2))
	assert.True(t, Greater(2, 1))
	assert.False(t, Not(isEven)(4))
	assert.True(t, EqualValue("x")("x"))
}

func TestCollateLess(t *testing.T) {
	words := []string{"zebra", "Äpfel", "apple", "Zürich", "äther"}
	less := CollateLess(language.German, collate.IgnoreCase)
	forEachPolicy(t, func(t *testing.T, p execution.Policy) {
		s := slices.Clone(words)
		SortFunc(p, s, less)
		assert.Equal(t, []string{"Äpfel", "apple", "äther", "zebra", "Zürich"}, s)
	})
}

func TestCollateLessConcurrent(t *testing.T) {
	less := CollateLess(language.English)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				assert.True(t, less("a", "b"))
			}
		}()
	}
	wg.Wait()
}

func TestSequenceVariants(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}
	forEachPolicy(t, func(t *testing.T, p execution.Policy) {
		assert.Equal(t, 2, CountIfSeq(p, maps.Values(m), isEven))

		sum := 0
		ForEachSeq(p, maps.Values(m), func(v int) { sum += v })
		assert.Equal(t, 10, sum)

		v, i, ok := FindIfSeq(p, slices.Values([]int{5, 7, 8, 9}), isEven)
		assert.True(t, ok)
		assert.Equal(t, 8, v)
		assert.Equal(t, 2, i)

		_, i, ok = FindIfSeq(p, slices.Values([]int{1, 3}), isEven)
		assert.False(t, ok)
		assert.Equal(t, 2, i)
	})
}
