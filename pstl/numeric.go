package pstl

import (
	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/pattern"
	"github.com/23skdu/longbow-pstl/internal/simd"
)

// Reductions assume op is associative and commutative; scans need only
// associativity. The grouping of partial results depends on the policy and
// the range size, so an op without those properties, floating-point
// addition included, may give different results under different policies.

func identity[T any](v T) T { return v }

// Reduce returns the sum of s.
func Reduce[T Number](p execution.Policy, s []T) T {
	return pattern.Reduce(plan1(p, s), s, 0, plus[T], simd.Sum[T])
}

// ReduceFunc folds s into init with op.
func ReduceFunc[T any](p execution.Policy, s []T, init T, op func(T, T) T) T {
	return pattern.Reduce(plan1(p, s), s, init, op, nil)
}

// TransformReduce folds transform(s[i]) into init with reduce.
func TransformReduce[T, R any](p execution.Policy, s []T, init R, reduce func(R, R) R, transform func(T) R) R {
	return pattern.TransformReduce(plan1(p, s), s, init, reduce, transform)
}

// TransformReduce2 folds transform(a[i], b[i]) into init with reduce over
// the shorter of a and b.
func TransformReduce2[T, U, R any](p execution.Policy, a []T, b []U, init R, reduce func(R, R) R, transform func(T, U) R) R {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]
	return pattern.TransformReduce2(plan2(p, a, b), a, b, init, reduce, transform, nil)
}

// InnerProduct returns init plus the sum of a[i]*b[i] over the shorter of
// a and b.
func InnerProduct[T Number](p execution.Policy, a, b []T, init T) T {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]
	return pattern.TransformReduce2(plan2(p, a, b), a, b, init, plus[T],
		func(x, y T) T { return x * y }, simd.Dot[T])
}

// InclusiveScan writes running sums of src to dst and returns len(src).
// dst may be src.
func InclusiveScan[T Number](p execution.Policy, src, dst []T) int {
	return InclusiveScanFunc(p, src, dst, plus[T])
}

func InclusiveScanFunc[T any](p execution.Policy, src, dst []T, op func(T, T) T) int {
	return pattern.Scan(plan2(p, src, dst), src, dst, pattern.ScanOp[T, T]{
		Op: op, Transform: identity[T], Inclusive: true,
	})
}

// InclusiveScanInit is InclusiveScanFunc with init folded in front.
func InclusiveScanInit[T any](p execution.Policy, src, dst []T, op func(T, T) T, init T) int {
	return pattern.Scan(plan2(p, src, dst), src, dst, pattern.ScanOp[T, T]{
		Op: op, Transform: identity[T], Init: init, HasInit: true, Inclusive: true,
	})
}

// ExclusiveScan writes to dst[i] the sum of init and src[:i].
func ExclusiveScan[T Number](p execution.Policy, src, dst []T, init T) int {
	return ExclusiveScanFunc(p, src, dst, init, plus[T])
}

func ExclusiveScanFunc[T any](p execution.Policy, src, dst []T, init T, op func(T, T) T) int {
	return pattern.Scan(plan2(p, src, dst), src, dst, pattern.ScanOp[T, T]{
		Op: op, Transform: identity[T], Init: init, HasInit: true,
	})
}

func TransformInclusiveScan[T, R any](p execution.Policy, src []T, dst []R, op func(R, R) R, transform func(T) R) int {
	return pattern.Scan(plan2(p, src, dst), src, dst, pattern.ScanOp[T, R]{
		Op: op, Transform: transform, Inclusive: true,
	})
}

func TransformExclusiveScan[T, R any](p execution.Policy, src []T, dst []R, init R, op func(R, R) R, transform func(T) R) int {
	return pattern.Scan(plan2(p, src, dst), src, dst, pattern.ScanOp[T, R]{
		Op: op, Transform: transform, Init: init, HasInit: true,
	})
}

// AdjacentDifference writes src[0] followed by src[i]-src[i-1] to dst.
// The slices must not overlap.
func AdjacentDifference[T Number](p execution.Policy, src, dst []T) int {
	return AdjacentDifferenceFunc(p, src, dst, func(a, b T) T { return a - b })
}

func AdjacentDifferenceFunc[T any](p execution.Policy, src, dst []T, op func(T, T) T) int {
	return pattern.AdjacentDifference(plan2(p, src, dst), src, dst, op)
}
