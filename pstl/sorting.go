package pstl

import (
	"cmp"

	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/pattern"
)

// Sort sorts s in ascending order. The order of equal elements is
// unspecified.
func Sort[T cmp.Ordered](p execution.Policy, s []T) {
	SortFunc(p, s, Less[T])
}

// SortFunc sorts s by less, which must be a strict weak ordering.
func SortFunc[T any](p execution.Policy, s []T, less func(T, T) bool) {
	pattern.Sort(plan1(p, s), s, less)
}

// StableSort sorts s keeping equal elements in their original order.
func StableSort[T cmp.Ordered](p execution.Policy, s []T) {
	StableSortFunc(p, s, Less[T])
}

func StableSortFunc[T any](p execution.Policy, s []T, less func(T, T) bool) {
	pattern.StableSort(plan1(p, s), s, less)
}

// PartialSort places the mid smallest elements of s, sorted, at its front.
// The order of the rest is unspecified.
func PartialSort[T cmp.Ordered](p execution.Policy, s []T, mid int) {
	PartialSortFunc(p, s, mid, Less[T])
}

func PartialSortFunc[T any](p execution.Policy, s []T, mid int, less func(T, T) bool) {
	pattern.PartialSort(plan1(p, s), s, mid, less)
}

// PartialSortCopy copies the smallest min(len(src), len(dst)) elements of
// src in sorted order to dst and returns that count.
func PartialSortCopy[T cmp.Ordered](p execution.Policy, src, dst []T) int {
	return PartialSortCopyFunc(p, src, dst, Less[T])
}

func PartialSortCopyFunc[T any](p execution.Policy, src, dst []T, less func(T, T) bool) int {
	return pattern.PartialSortCopy(plan2(p, src, dst), src, dst, less)
}

// NthElement reorders s so that s[nth] holds the element a full sort would
// put there, with nothing greater before it and nothing smaller after.
func NthElement[T cmp.Ordered](p execution.Policy, s []T, nth int) {
	NthElementFunc(p, s, nth, Less[T])
}

func NthElementFunc[T any](p execution.Policy, s []T, nth int, less func(T, T) bool) {
	pattern.NthElement(plan1(p, s), s, nth, less)
}

// Merge merges the sorted slices a and b into dst and returns
// len(a)+len(b). Equal elements from a come first.
func Merge[T cmp.Ordered](p execution.Policy, a, b, dst []T) int {
	return MergeFunc(p, a, b, dst, Less[T])
}

func MergeFunc[T any](p execution.Policy, a, b, dst []T, less func(T, T) bool) int {
	return pattern.Merge(plan3(p, a, b, dst), a, b, dst, less)
}

// InplaceMerge merges the sorted halves s[:mid] and s[mid:] in place,
// stably.
func InplaceMerge[T cmp.Ordered](p execution.Policy, s []T, mid int) {
	InplaceMergeFunc(p, s, mid, Less[T])
}

func InplaceMergeFunc[T any](p execution.Policy, s []T, mid int, less func(T, T) bool) {
	pattern.InplaceMerge(plan1(p, s), s, mid, less)
}

// Includes reports whether the sorted b is a sub-multiset of the sorted a.
func Includes[T cmp.Ordered](p execution.Policy, a, b []T) bool {
	return IncludesFunc(p, a, b, Less[T])
}

func IncludesFunc[T any](p execution.Policy, a, b []T, less func(T, T) bool) bool {
	return pattern.Includes(plan2(p, a, b), a, b, less)
}

// The set operations take sorted inputs, write a sorted result to dst and
// return its length. dst must hold the largest possible result:
// len(a)+len(b) for unions and symmetric differences, len(a) otherwise.

func SetUnion[T cmp.Ordered](p execution.Policy, a, b, dst []T) int {
	return SetUnionFunc(p, a, b, dst, Less[T])
}

func SetUnionFunc[T any](p execution.Policy, a, b, dst []T, less func(T, T) bool) int {
	return pattern.SetOp(plan3(p, a, b, dst), pattern.SetUnion, a, b, dst, less)
}

func SetIntersection[T cmp.Ordered](p execution.Policy, a, b, dst []T) int {
	return SetIntersectionFunc(p, a, b, dst, Less[T])
}

func SetIntersectionFunc[T any](p execution.Policy, a, b, dst []T, less func(T, T) bool) int {
	return pattern.SetOp(plan3(p, a, b, dst), pattern.SetIntersection, a, b, dst, less)
}

func SetDifference[T cmp.Ordered](p execution.Policy, a, b, dst []T) int {
	return SetDifferenceFunc(p, a, b, dst, Less[T])
}

func SetDifferenceFunc[T any](p execution.Policy, a, b, dst []T, less func(T, T) bool) int {
	return pattern.SetOp(plan3(p, a, b, dst), pattern.SetDifference, a, b, dst, less)
}

func SetSymmetricDifference[T cmp.Ordered](p execution.Policy, a, b, dst []T) int {
	return SetSymmetricDifferenceFunc(p, a, b, dst, Less[T])
}

func SetSymmetricDifferenceFunc[T any](p execution.Policy, a, b, dst []T, less func(T, T) bool) int {
	return pattern.SetOp(plan3(p, a, b, dst), pattern.SetSymmetricDifference, a, b, dst, less)
}
