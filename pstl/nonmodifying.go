package pstl

import (
	"cmp"

	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/pattern"
)

func AllOf[T any](p execution.Policy, s []T, pred func(T) bool) bool {
	return !pattern.AnyOf(plan1(p, s), s, Not(pred))
}

func AnyOf[T any](p execution.Policy, s []T, pred func(T) bool) bool {
	return pattern.AnyOf(plan1(p, s), s, pred)
}

func NoneOf[T any](p execution.Policy, s []T, pred func(T) bool) bool {
	return !pattern.AnyOf(plan1(p, s), s, pred)
}

// ForEach calls f with a pointer to every element of s.
func ForEach[T any](p execution.Policy, s []T, f func(*T)) {
	pattern.Walk1(plan1(p, s), s, f)
}

// ForEachN calls f on the first n elements and returns the index past the
// last one visited.
func ForEachN[T any](p execution.Policy, s []T, n int, f func(*T)) int {
	n = clampN(n, len(s))
	ForEach(p, s[:n], f)
	return n
}

func clampN(n, size int) int {
	return min(max(n, 0), size)
}

// Find returns the index of the first element equal to v, or len(s).
func Find[T comparable](p execution.Policy, s []T, v T) int {
	return pattern.FindIf(plan1(p, s), s, EqualValue(v))
}

func FindIf[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.FindIf(plan1(p, s), s, pred)
}

func FindIfNot[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.FindIf(plan1(p, s), s, Not(pred))
}

// FindEnd returns the start of the last occurrence of sub in s, or len(s).
// An empty sub is never found.
func FindEnd[T comparable](p execution.Policy, s, sub []T) int {
	return FindEndFunc(p, s, sub, EqualTo[T])
}

func FindEndFunc[T any](p execution.Policy, s, sub []T, eq func(T, T) bool) int {
	return pattern.FindEnd(plan2(p, s, sub), s, sub, eq)
}

// FindFirstOf returns the first index of s holding any element of set.
func FindFirstOf[T comparable](p execution.Policy, s, set []T) int {
	return FindFirstOfFunc(p, s, set, EqualTo[T])
}

func FindFirstOfFunc[T any](p execution.Policy, s, set []T, eq func(T, T) bool) int {
	return pattern.FindFirstOf(plan2(p, s, set), s, set, eq)
}

// AdjacentFind returns the first i with s[i] == s[i+1], or len(s).
func AdjacentFind[T comparable](p execution.Policy, s []T) int {
	return AdjacentFindFunc(p, s, EqualTo[T])
}

func AdjacentFindFunc[T any](p execution.Policy, s []T, eq func(T, T) bool) int {
	return pattern.AdjacentFind(plan1(p, s), s, eq)
}

func Count[T comparable](p execution.Policy, s []T, v T) int {
	return pattern.Count(plan1(p, s), s, EqualValue(v))
}

func CountIf[T any](p execution.Policy, s []T, pred func(T) bool) int {
	return pattern.Count(plan1(p, s), s, pred)
}

// Mismatch returns the first index at which a and b differ, or the length
// of the shorter one.
func Mismatch[T comparable](p execution.Policy, a, b []T) int {
	return MismatchFunc(p, a, b, EqualTo[T])
}

func MismatchFunc[T, U any](p execution.Policy, a []T, b []U, eq func(T, U) bool) int {
	return pattern.Mismatch(plan2(p, a, b), a, b, eq)
}

// Equal reports whether a and b have the same length and elements.
func Equal[T comparable](p execution.Policy, a, b []T) bool {
	return EqualFunc(p, a, b, EqualTo[T])
}

func EqualFunc[T, U any](p execution.Policy, a []T, b []U, eq func(T, U) bool) bool {
	check(p)
	if len(a) != len(b) {
		return false
	}
	return MismatchFunc(p, a, b, eq) == len(a)
}

// EqualPrefix reports whether a equals the first len(a) elements of b.
// It is false when b is shorter than a.
func EqualPrefix[T comparable](p execution.Policy, a, b []T) bool {
	return EqualPrefixFunc(p, a, b, EqualTo[T])
}

func EqualPrefixFunc[T, U any](p execution.Policy, a []T, b []U, eq func(T, U) bool) bool {
	check(p)
	if len(b) < len(a) {
		return false
	}
	return MismatchFunc(p, a, b[:len(a)], eq) == len(a)
}

// Search returns the start of the first occurrence of sub in s, or len(s).
// An empty sub matches at 0.
func Search[T comparable](p execution.Policy, s, sub []T) int {
	return SearchFunc(p, s, sub, EqualTo[T])
}

func SearchFunc[T any](p execution.Policy, s, sub []T, eq func(T, T) bool) int {
	return pattern.Search(plan2(p, s, sub), s, sub, eq)
}

// SearchN returns the start of the first run of count copies of v, or
// len(s). A count of zero or less matches at 0.
func SearchN[T comparable](p execution.Policy, s []T, count int, v T) int {
	return SearchNFunc(p, s, count, v, EqualTo[T])
}

func SearchNFunc[T any](p execution.Policy, s []T, count int, v T, eq func(T, T) bool) int {
	return pattern.SearchN(plan1(p, s), s, count, v, eq)
}

// LexicographicalCompare reports whether a orders before b.
func LexicographicalCompare[T cmp.Ordered](p execution.Policy, a, b []T) bool {
	return LexicographicalCompareFunc(p, a, b, Less[T])
}

func LexicographicalCompareFunc[T any](p execution.Policy, a, b []T, less func(T, T) bool) bool {
	return pattern.LexicographicalCompare(plan2(p, a, b), a, b, less)
}

func IsSorted[T cmp.Ordered](p execution.Policy, s []T) bool {
	return IsSortedUntil(p, s) == len(s)
}

func IsSortedFunc[T any](p execution.Policy, s []T, less func(T, T) bool) bool {
	return IsSortedUntilFunc(p, s, less) == len(s)
}

// IsSortedUntil returns the length of the longest sorted prefix of s.
func IsSortedUntil[T cmp.Ordered](p execution.Policy, s []T) int {
	return IsSortedUntilFunc(p, s, Less[T])
}

func IsSortedUntilFunc[T any](p execution.Policy, s []T, less func(T, T) bool) int {
	return pattern.IsSortedUntil(plan1(p, s), s, less)
}

// IsPartitioned reports whether every element satisfying pred precedes
// every element that does not.
func IsPartitioned[T any](p execution.Policy, s []T, pred func(T) bool) bool {
	return pattern.IsPartitioned(plan1(p, s), s, pred)
}

// IsHeap reports whether s is a max-heap.
func IsHeap[T cmp.Ordered](p execution.Policy, s []T) bool {
	return IsHeapUntil(p, s) == len(s)
}

func IsHeapFunc[T any](p execution.Policy, s []T, less func(T, T) bool) bool {
	return IsHeapUntilFunc(p, s, less) == len(s)
}

// IsHeapUntil returns the length of the longest prefix of s that is a
// max-heap.
func IsHeapUntil[T cmp.Ordered](p execution.Policy, s []T) int {
	return IsHeapUntilFunc(p, s, Less[T])
}

func IsHeapUntilFunc[T any](p execution.Policy, s []T, less func(T, T) bool) int {
	return pattern.IsHeapUntil(plan1(p, s), s, less)
}

// MinElement returns the index of the first smallest element, or len(s).
func MinElement[T cmp.Ordered](p execution.Policy, s []T) int {
	return MinElementFunc(p, s, Less[T])
}

func MinElementFunc[T any](p execution.Policy, s []T, less func(T, T) bool) int {
	return pattern.MinElement(plan1(p, s), s, less)
}

// MaxElement returns the index of the first largest element, or len(s).
func MaxElement[T cmp.Ordered](p execution.Policy, s []T) int {
	return MaxElementFunc(p, s, Less[T])
}

func MaxElementFunc[T any](p execution.Policy, s []T, less func(T, T) bool) int {
	return pattern.MaxElement(plan1(p, s), s, less)
}

// MinMaxElement returns the first smallest and the last largest element.
func MinMaxElement[T cmp.Ordered](p execution.Policy, s []T) (int, int) {
	return MinMaxElementFunc(p, s, Less[T])
}

func MinMaxElementFunc[T any](p execution.Policy, s []T, less func(T, T) bool) (int, int) {
	return pattern.MinMaxElement(plan1(p, s), s, less)
}
