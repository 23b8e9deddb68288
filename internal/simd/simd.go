// Package simd holds the element bricks the vector backend runs: loops
// unrolled to the lane count so the compiler can keep several independent
// accumulators in flight.
package simd

import (
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Each calls f on every element in order.
func Each[T any](s []T, f func(*T)) {
	i := 0
	for ; i <= len(s)-4; i += 4 {
		f(&s[i])
		f(&s[i+1])
		f(&s[i+2])
		f(&s[i+3])
	}
	for ; i < len(s); i++ {
		f(&s[i])
	}
}

// Map writes f(src[i]) to dst[i].
func Map[T, U any](src []T, dst []U, f func(T) U) {
	dst = dst[:len(src)]
	i := 0
	for ; i <= len(src)-4; i += 4 {
		dst[i] = f(src[i])
		dst[i+1] = f(src[i+1])
		dst[i+2] = f(src[i+2])
		dst[i+3] = f(src[i+3])
	}
	for ; i < len(src); i++ {
		dst[i] = f(src[i])
	}
}

// Fill sets every element of dst to v by doubling copies.
func Fill[T any](dst []T, v T) {
	if len(dst) == 0 {
		return
	}
	dst[0] = v
	for filled := 1; filled < len(dst); filled *= 2 {
		copy(dst[filled:], dst[:filled])
	}
}

// Index returns the first index whose element satisfies pred, or -1. The
// predicate is evaluated a whole block of lanes at a time.
func Index[T any](s []T, lanes int, pred func(T) bool) int {
	lanes = max(lanes, 1)
	mask := make([]bool, lanes)
	i := 0
	for ; i+lanes <= len(s); i += lanes {
		hit := false
		for l := range lanes {
			mask[l] = pred(s[i+l])
			hit = hit || mask[l]
		}
		if hit {
			for l, m := range mask {
				if m {
					return i + l
				}
			}
		}
	}
	for ; i < len(s); i++ {
		if pred(s[i]) {
			return i
		}
	}
	return -1
}

// Count returns the number of elements satisfying pred.
func Count[T any](s []T, pred func(T) bool) int {
	var c0, c1, c2, c3 int
	i := 0
	for ; i <= len(s)-4; i += 4 {
		if pred(s[i]) {
			c0++
		}
		if pred(s[i+1]) {
			c1++
		}
		if pred(s[i+2]) {
			c2++
		}
		if pred(s[i+3]) {
			c3++
		}
	}
	for ; i < len(s); i++ {
		if pred(s[i]) {
			c0++
		}
	}
	return c0 + c1 + c2 + c3
}

// Reduce folds s with op keeping one accumulator per lane, then folds the
// lanes. s must not be empty. The grouping differs from a left fold, so op
// has to be associative and commutative for the result to match one.
func Reduce[T any](s []T, lanes int, op func(T, T) T) T {
	lanes = max(1, min(lanes, len(s)))
	acc := make([]T, lanes)
	copy(acc, s[:lanes])
	i := lanes
	for ; i+lanes <= len(s); i += lanes {
		for l := range lanes {
			acc[l] = op(acc[l], s[i+l])
		}
	}
	for l := 0; i < len(s); i, l = i+1, l+1 {
		acc[l] = op(acc[l], s[i])
	}
	r := acc[0]
	for _, v := range acc[1:] {
		r = op(r, v)
	}
	return r
}

// Sum adds the elements of s.
func Sum[T Number](s []T) T {
	if f, ok := any(s).([]float64); ok {
		return T(floats.Sum(f))
	}
	var s0, s1, s2, s3 T
	i := 0
	for ; i <= len(s)-4; i += 4 {
		s0 += s[i]
		s1 += s[i+1]
		s2 += s[i+2]
		s3 += s[i+3]
	}
	for ; i < len(s); i++ {
		s0 += s[i]
	}
	return s0 + s1 + s2 + s3
}

// Dot returns the sum of a[i]*b[i] over the shorter length.
func Dot[T Number](a, b []T) T {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]
	if fa, ok := any(a).([]float64); ok {
		return T(floats.Dot(fa, any(b).([]float64)))
	}
	var s0, s1, s2, s3 T
	i := 0
	for ; i <= n-4; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return s0 + s1 + s2 + s3
}
