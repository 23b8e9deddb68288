package pstl

import (
	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/pattern"
)

// Output slices must be at least as long as the input they receive; the
// returned count is the index in dst past the last element written.

// Copy copies src to dst and returns len(src). The slices must not overlap.
func Copy[T any](p execution.Policy, src, dst []T) int {
	return pattern.Copy(plan2(p, src, dst), src, dst)
}

// CopyN copies the first n elements of src and returns how many it copied.
func CopyN[T any](p execution.Policy, src []T, n int, dst []T) int {
	n = clampN(n, len(src))
	return Copy(p, src[:n], dst)
}

// CopyIf copies the elements satisfying pred, in order, and returns how
// many it copied.
func CopyIf[T any](p execution.Policy, src, dst []T, pred func(T) bool) int {
	return pattern.CopyIf(plan2(p, src, dst), src, dst, pred)
}

// Move is Copy; Go values have no moved-from state.
func Move[T any](p execution.Policy, src, dst []T) int {
	return Copy(p, src, dst)
}

// SwapRanges exchanges a[i] and b[i] for every i < len(a).
func SwapRanges[T any](p execution.Policy, a, b []T) int {
	return pattern.SwapRanges(plan2(p, a, b), a, b)
}

// Transform writes f(src[i]) to dst[i]. dst may be src.
func Transform[T, U any](p execution.Policy, src []T, dst []U, f func(T) U) int {
	return pattern.Transform(plan2(p, src, dst), src, dst, f)
}

// Transform2 writes f(a[i], b[i]) to dst[i] for every i < len(a).
func Transform2[T, U, V any](p execution.Policy, a []T, b []U, dst []V, f func(T, U) V) int {
	return pattern.Transform2(plan3(p, a, b, dst), a, b, dst, f)
}

func Replace[T comparable](p execution.Policy, s []T, old, repl T) {
	ReplaceIf(p, s, EqualValue(old), repl)
}

func ReplaceIf[T any](p execution.Policy, s []T, pred func(T) bool, v T) {
	pattern.Walk1(plan1(p, s), s, func(x *T) {
		if pred(*x) {
			*x = v
		}
	})
}

// ReplaceCopy copies src to dst with every old replaced by repl.
func ReplaceCopy[T comparable](p execution.Policy, src, dst []T, old, repl T) int {
	return ReplaceCopyIf(p, src, dst, EqualValue(old), repl)
}

func ReplaceCopyIf[T any](p execution.Policy, src, dst []T, pred func(T) bool, v T) int {
	return Transform(p, src, dst, func(x T) T {
		if pred(x) {
			return v
		}
		return x
	})
}

func Fill[T any](p execution.Policy, s []T, v T) {
	pattern.Fill(plan1(p, s), s, v)
}

// FillN fills the first n elements and returns the index past them.
func FillN[T any](p execution.Policy, s []T, n int, v T) int {
	n = clampN(n, len(s))
	Fill(p, s[:n], v)
	return n
}

// Generate assigns gen() to every element. Under a parallel or device
// policy gen runs concurrently and the order of calls is unspecified.
func Generate[T any](p execution.Policy, s []T, gen func() T) {
	pattern.Generate(plan1(p, s), s, gen)
}

func GenerateN[T any](p execution.Policy, s []T, n int, gen func() T) int {
	n = clampN(n, len(s))
	Generate(p, s[:n], gen)
	return n
}

// Remove moves the elements not equal to v to the front of s, in order,
// and returns their count. Elements past the count are unspecified.
func Remove[T comparable](p execution.Policy, s []T, v T) int {
	return RemoveIf(p, s, EqualValue(v))
}

func RemoveIf[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.RemoveIf(plan1(p, s), s, pred)
}

func RemoveCopy[T comparable](p execution.Policy, src, dst []T, v T) int {
	return RemoveCopyIf(p, src, dst, EqualValue(v))
}

func RemoveCopyIf[T any](p execution.Policy, src, dst []T, pred func(T) bool) int {
	return CopyIf(p, src, dst, Not(pred))
}

// Unique keeps the first element of every run of equal elements at the
// front of s and returns their count.
func Unique[T comparable](p execution.Policy, s []T) int {
	return UniqueFunc(p, s, EqualTo[T])
}

func UniqueFunc[T any](p execution.Policy, s []T, eq func(T, T) bool) int {
	return pattern.Unique(plan1(p, s), s, eq)
}

func UniqueCopy[T comparable](p execution.Policy, src, dst []T) int {
	return UniqueCopyFunc(p, src, dst, EqualTo[T])
}

func UniqueCopyFunc[T any](p execution.Policy, src, dst []T, eq func(T, T) bool) int {
	return pattern.UniqueCopy(plan2(p, src, dst), src, dst, eq)
}

func Reverse[T any](p execution.Policy, s []T) {
	pattern.Reverse(plan1(p, s), s)
}

func ReverseCopy[T any](p execution.Policy, src, dst []T) int {
	return pattern.ReverseCopy(plan2(p, src, dst), src, dst)
}

// Rotate rotates s left so that s[mid] becomes the first element and
// returns the new index of the element that was first.
func Rotate[T any](p execution.Policy, s []T, mid int) int {
	return pattern.Rotate(plan1(p, s), s, mid)
}

func RotateCopy[T any](p execution.Policy, src []T, mid int, dst []T) int {
	return pattern.RotateCopy(plan2(p, src, dst), src, mid, dst)
}

// Partition reorders s so the elements satisfying pred come first and
// returns their count. Relative order is not kept; see StablePartition.
func Partition[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.Partition(plan1(p, s), s, pred)
}

func StablePartition[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.StablePartition(plan1(p, s), s, pred)
}

// PartitionCopy copies elements satisfying pred to dstTrue and the others
// to dstFalse and returns both counts.
func PartitionCopy[T any](p execution.Policy, src, dstTrue, dstFalse []T, pred func(T) bool) (int, int) {
	return pattern.PartitionCopy(plan3(p, src, dstTrue, dstFalse), src, dstTrue, dstFalse, pred)
}
