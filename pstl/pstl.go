// Package pstl provides the standard parallel algorithms over slices. Every
// function takes an execution policy first:
//
//	pstl.Sort(execution.Par, s)
//	n := pstl.RemoveIf(execution.ParUnseq, s, isEven)
//	sum := pstl.Reduce(execution.MustDefaultDevicePolicy(), s)
//
// Positions are returned as indices; len(s) stands for "not found" or the
// end of the range. Callables passed with a parallel or device policy may
// run concurrently and in any order, so they must not race with each other.
//
// The policy is validated before any element is touched; an invalid policy
// panics with its validation error. A callable that panics under a host
// policy panics in the caller with the original value. Under a device or
// FPGA policy the value arrives wrapped in a *device.KernelError: error
// values stay reachable through errors.Is and errors.As, other values are
// in KernelError.Value.
package pstl

import (
	"errors"

	"golang.org/x/exp/constraints"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/capability"
)

// ErrNilPolicy is the panic value for a nil policy.
var ErrNilPolicy = errors.New("pstl: nil execution policy")

// Number is the element constraint of the arithmetic defaults.
type Number interface {
	constraints.Integer | constraints.Float
}

func queueOf(p execution.Policy) *device.Queue {
	if h, ok := p.(execution.Hetero); ok {
		return h.Queue()
	}
	return nil
}

func check(p execution.Policy) {
	if p == nil {
		panic(ErrNilPolicy)
	}
	if err := p.Validate(); err != nil {
		panic(err)
	}
}

// plan1 validates p and resolves the backend for one slice.
func plan1[T any](p execution.Policy, s []T) capability.Plan {
	check(p)
	return capability.Resolve(p, capability.Of(queueOf(p), s))
}

func plan2[T, U any](p execution.Policy, a []T, b []U) capability.Plan {
	check(p)
	q := queueOf(p)
	return capability.Resolve(p, capability.Of(q, a), capability.Of(q, b))
}

func plan3[T, U, V any](p execution.Policy, a []T, b []U, c []V) capability.Plan {
	check(p)
	q := queueOf(p)
	return capability.Resolve(p, capability.Of(q, a), capability.Of(q, b), capability.Of(q, c))
}
