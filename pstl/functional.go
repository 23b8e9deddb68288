package pstl

import (
	"cmp"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EqualTo is the default equality predicate.
func EqualTo[T comparable](a, b T) bool { return a == b }

// Less is the default ordering. NaNs order before every other float.
func Less[T cmp.Ordered](a, b T) bool { return cmp.Less(a, b) }

func Greater[T cmp.Ordered](a, b T) bool { return cmp.Less(b, a) }

// Not negates a unary predicate.
func Not[T any](pred func(T) bool) func(T) bool {
	return func(v T) bool { return !pred(v) }
}

// EqualValue returns a predicate matching v.
func EqualValue[T comparable](v T) func(T) bool {
	return func(x T) bool { return x == v }
}

func plus[T Number](a, b T) T { return a + b }

// CollateLess orders strings by the collation rules of tag. The returned
// comparator is safe for concurrent use: each call borrows a collator from
// a pool, since a collator holds per-call buffers.
func CollateLess(tag language.Tag, opts ...collate.Option) func(a, b string) bool {
	pool := sync.Pool{
		New: func() any { return collate.New(tag, opts...) },
	}
	return func(a, b string) bool {
		c := pool.Get().(*collate.Collator)
		defer pool.Put(c)
		return c.CompareString(a, b) < 0
	}
}
