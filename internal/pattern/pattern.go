// Package pattern holds the algorithm skeletons behind package pstl. Each
// pattern takes a capability.Plan and realizes one data-flow shape on the
// plan's backend: a serial loop, lane-blocked bricks, chunks on the
// parallel executor, or kernels on a device queue.
//
// Every split hands tasks disjoint write regions. Partial results are
// combined only after all tasks producing them have joined, in index order.
package pattern

import (
	"context"
	"unsafe"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/internal/capability"
	"github.com/23skdu/longbow-pstl/internal/metrics"
	"github.com/23skdu/longbow-pstl/internal/parallel"
)

type Plan = capability.Plan

func record(name string, pl Plan, n int) {
	metrics.Record(name, pl.Backend.String(), n)
}

func isDevice(pl Plan) bool { return pl.Backend == capability.Device }

// partition splits [0, n) into the blocks the plan's backend runs and
// returns a runner that executes fn once per block, concurrently where the
// backend allows, and returns after all blocks finished.
//
// On a device the blocks are work-groups; with an unroll factor u each
// work-item covers u consecutive elements.
func partition(pl Plan, name string, n int) ([]parallel.Chunk, func(fn func(c parallel.Chunk))) {
	switch {
	case n <= 0:
		return nil, func(func(parallel.Chunk)) {}
	case isDevice(pl):
		kernel := pl.KernelName(name)
		local := pl.Queue.WorkGroupSize(kernel)
		u := max(1, pl.Unroll)
		chunks := parallel.SplitBy(n, local*u)
		return chunks, func(fn func(parallel.Chunk)) {
			launch(pl.Queue, device.Kernel{
				Name:  kernel,
				Range: device.NDRange{Global: (n + u - 1) / u, Local: local},
				GroupFunc: func(g device.Group) {
					fn(chunks[g.ID])
				},
			})
		}
	case pl.Split(n):
		chunks := pl.Exec.Split(n)
		return chunks, func(fn func(parallel.Chunk)) {
			pl.Exec.Run(chunks, fn)
		}
	default:
		chunks := []parallel.Chunk{{Lo: 0, Hi: n}}
		return chunks, func(fn func(parallel.Chunk)) {
			fn(chunks[0])
		}
	}
}

// each runs body over [0, n) in blocks.
func each(pl Plan, name string, n int, body func(lo, hi int)) {
	_, run := partition(pl, name, n)
	run(func(c parallel.Chunk) {
		body(c.Lo, c.Hi)
	})
}

// launch runs k to completion. A failed kernel panics with the queue's
// error value.
func launch(q *device.Queue, k device.Kernel) {
	if err := q.Run(context.Background(), k); err != nil {
		panic(err)
	}
}

// input returns a device-visible copy of a read-only range and its release
// function. Off the device, or for memory the queue already owns, s is
// returned as is.
func input[T any](pl Plan, s []T) ([]T, func()) {
	if !needsStaging(pl, s) {
		return s, func() {}
	}
	buf := stage(pl, s)
	return buf.Slice(), buf.Release
}

// output is input for a range the pattern writes. The returned function
// copies the device contents back before releasing them.
func output[T any](pl Plan, s []T) ([]T, func()) {
	if !needsStaging(pl, s) {
		return s, func() {}
	}
	buf := stage(pl, s)
	return buf.Slice(), func() {
		copy(s, buf.Slice())
		metrics.StagedBytes.Add(float64(staged(s)))
		buf.Release()
	}
}

func needsStaging[T any](pl Plan, s []T) bool {
	return isDevice(pl) && len(s) > 0 && device.PointerType(pl.Queue, s) == device.USMUnknown
}

func stage[T any](pl Plan, s []T) *device.Buffer[T] {
	buf, err := device.Alloc[T](pl.Queue, len(s))
	if err != nil {
		panic(err)
	}
	copy(buf.Slice(), s)
	metrics.StagedBytes.Add(float64(staged(s)))
	return buf
}

// scratch allocates n elements of temporary storage on the plan's backend.
func scratch[T any](pl Plan, n int) ([]T, func()) {
	if !isDevice(pl) || n == 0 {
		return make([]T, n), func() {}
	}
	buf, err := device.Alloc[T](pl.Queue, n)
	if err != nil {
		panic(err)
	}
	return buf.Slice(), buf.Release
}

func staged[T any](s []T) int {
	var zero T
	return len(s) * int(unsafe.Sizeof(zero))
}
