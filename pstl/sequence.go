package pstl

import (
	"iter"

	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/capability"
	"github.com/23skdu/longbow-pstl/internal/pattern"
)

// The Seq variants accept forward-only sequences. Any policy is accepted
// and validated, but the walk is always sequential.

func seqPlan(p execution.Policy) capability.Plan {
	check(p)
	return capability.Resolve(p, capability.Sequence())
}

func ForEachSeq[T any](p execution.Policy, seq iter.Seq[T], f func(T)) {
	pattern.ForEachSeq(seqPlan(p), seq, f)
}

func CountIfSeq[T any](p execution.Policy, seq iter.Seq[T], pred func(T) bool) int {
	return pattern.CountIfSeq(seqPlan(p), seq, pred)
}

// FindIfSeq returns the first element satisfying pred, its position, and
// whether one was found. The position is the sequence length when not.
func FindIfSeq[T any](p execution.Policy, seq iter.Seq[T], pred func(T) bool) (T, int, bool) {
	return pattern.FindIfSeq(seqPlan(p), seq, pred)
}
