package simd

import (
	"testing"
)

func TestFill(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 64, 100} {
		dst := make([]int, n)
		Fill(dst, 9)
		for i, v := range dst {
			if v != 9 {
				t.Errorf("Fill(n=%d)[%d] = %d, want 9", n, i, v)
			}
		}
	}
}

func TestEachAndMap(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7}
	Each(s, func(v *int) { *v *= 2 })
	dst := make([]string, len(s))
	Map(s, dst, func(v int) string { return string(rune('a' + v)) })
	want := []string{"c", "e", "g", "i", "k", "m", "o"}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Map[%d] = %q, want %q", i, dst[i], want[i])
		}
	}
}

func TestIndex(t *testing.T) {
	s := []int{5, 3, 8, 1, 9, 8, 2, 8, 7}
	for lanes := 1; lanes <= 16; lanes++ {
		if got := Index(s, lanes, func(v int) bool { return v == 8 }); got != 2 {
			t.Errorf("Index(lanes=%d) = %d, want 2", lanes, got)
		}
		if got := Index(s, lanes, func(v int) bool { return v == 7 }); got != 8 {
			t.Errorf("Index(lanes=%d) tail = %d, want 8", lanes, got)
		}
		if got := Index(s, lanes, func(v int) bool { return v > 100 }); got != -1 {
			t.Errorf("Index(lanes=%d) miss = %d, want -1", lanes, got)
		}
	}
}

func TestCount(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	if got := Count(s, func(v int) bool { return v%2 == 0 }); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
}

func TestReduce(t *testing.T) {
	s := make([]int, 37)
	for i := range s {
		s[i] = i + 1
	}
	for _, lanes := range []int{0, 1, 3, 8, 64} {
		if got := Reduce(s, lanes, func(a, b int) int { return a + b }); got != 703 {
			t.Errorf("Reduce(lanes=%d) = %d, want 703", lanes, got)
		}
	}
	if got := Reduce([]int{4}, 8, func(a, b int) int { return a * b }); got != 4 {
		t.Errorf("Reduce single = %d, want 4", got)
	}
}

func TestSumDot(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}
	if got := Sum(a); got != 15 {
		t.Errorf("Sum = %f, want 15", got)
	}
	// 2 + 6 + 12 + 20 + 30 = 70
	if got := Dot(a, b); got != 70 {
		t.Errorf("Dot = %f, want 70", got)
	}
	ia := []int32{1, 2, 3, 4, 5, 6}
	if got := Sum(ia); got != 21 {
		t.Errorf("Sum(int32) = %d, want 21", got)
	}
	if got := Dot(ia, ia[:3]); got != 14 {
		t.Errorf("Dot(int32) = %d, want 14", got)
	}
}

func TestLanes(t *testing.T) {
	if Width() == 0 {
		if Lanes(4) != 0 {
			t.Errorf("Lanes with SIMD disabled = %d, want 0", Lanes(4))
		}
		return
	}
	if got := Lanes(4); got != Width()/4 {
		t.Errorf("Lanes(4) = %d, want %d", got, Width()/4)
	}
	if Lanes(Width()+1) != 0 || Lanes(0) != 0 {
		t.Error("oversized or empty elements must not vectorize")
	}
	if CurrentLevel().String() == "" {
		t.Error("empty level name")
	}
}
