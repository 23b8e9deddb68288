// Package capability decides, once per algorithm call, which backend runs
// it: from the policy's static traits and the shape of the ranges involved.
package capability

import (
	"fmt"
	"unsafe"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/parallel"
	"github.com/23skdu/longbow-pstl/internal/simd"
)

type Category int

const (
	Forward Category = iota
	Bidirectional
	RandomAccess
)

// Storage is where a range's elements live.
type Storage int

const (
	StorageHost Storage = iota
	StorageGeneric
	StorageUSMHost
	StorageUSMShared
	StorageUSMDevice
)

// Range describes one input or output range of an algorithm call.
type Range struct {
	Category    Category
	Storage     Storage
	Len         int
	ElemSize    int
	PointerFree bool
}

// Contiguous reports whether the elements are adjacent in memory.
func (r Range) Contiguous() bool {
	return r.Category == RandomAccess && r.Storage != StorageGeneric
}

// Of describes a slice. q, when set, is consulted for USM ownership.
func Of[T any](q *device.Queue, s []T) Range {
	var zero T
	r := Range{
		Category:    RandomAccess,
		Storage:     StorageHost,
		Len:         len(s),
		ElemSize:    int(unsafe.Sizeof(zero)),
		PointerFree: device.PointerFree[T](),
	}
	switch device.PointerType(q, s) {
	case device.USMHost:
		r.Storage = StorageUSMHost
	case device.USMShared:
		r.Storage = StorageUSMShared
	case device.USMDevice:
		r.Storage = StorageUSMDevice
	}
	return r
}

// Sequence describes a forward-only range of unknown length.
func Sequence() Range {
	return Range{Category: Forward, Storage: StorageGeneric, Len: -1}
}

// Flags are hints: a pattern may still run serially.
type Flags struct {
	Vector   bool
	Parallel bool
}

// Compute derives the capability flags for p over rs.
func Compute(p execution.Policy, rs ...Range) Flags {
	f := Flags{
		Vector:   p.AllowUnsequenced(),
		Parallel: p.AllowParallel(),
	}
	for _, r := range rs {
		if r.Category != RandomAccess {
			f.Parallel = false
			f.Vector = false
		}
		if !r.Contiguous() || !r.PointerFree || simd.Lanes(r.ElemSize) == 0 {
			f.Vector = false
		}
	}
	return f
}

// Backend is the realization chosen for one call.
type Backend int

const (
	Serial Backend = iota
	Vector
	Parallel
	ParallelVector
	Device
)

func (b Backend) String() string {
	switch b {
	case Serial:
		return "serial"
	case Vector:
		return "vector"
	case Parallel:
		return "parallel"
	case ParallelVector:
		return "parallel_vector"
	case Device:
		return "device"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// Plan is everything a pattern needs to run: the backend plus the resources
// that backend uses.
type Plan struct {
	Backend Backend
	Lanes   int
	Exec    *parallel.Executor
	Queue   *device.Queue
	Kernel  string
	Unroll  int
}

// Resolve picks the backend for p over rs. Device policies lose their
// device plan when a range is not random access.
func Resolve(p execution.Policy, rs ...Range) Plan {
	f := Compute(p, rs...)
	pl := Plan{Backend: Serial, Lanes: 1, Exec: parallel.Default(), Unroll: 1}
	if f.Vector {
		pl.Lanes = lanes(rs)
	}
	if h, ok := p.(execution.Hetero); ok {
		if f.Parallel {
			pl.Backend = Device
			pl.Queue = h.Queue()
			pl.Kernel = h.KernelName()
			pl.Unroll = execution.UnrollFactor(p)
		}
		return pl
	}
	switch {
	case f.Parallel && f.Vector:
		pl.Backend = ParallelVector
	case f.Parallel:
		pl.Backend = Parallel
	case f.Vector:
		pl.Backend = Vector
	}
	return pl
}

func lanes(rs []Range) int {
	widest := 1
	for _, r := range rs {
		widest = max(widest, r.ElemSize)
	}
	return max(1, simd.Lanes(widest))
}

// Parallel reports whether the plan may split work across tasks.
func (p Plan) Parallel() bool {
	return p.Backend == Parallel || p.Backend == ParallelVector
}

// Vector reports whether bricks may use lane-blocked loops.
func (p Plan) Vector() bool {
	return p.Backend == Vector || p.Backend == ParallelVector || p.Backend == Device
}

// Host is the plan a device pattern without a kernel realization falls back
// to.
func (p Plan) Host() Plan {
	if p.Backend != Device {
		return p
	}
	p.Backend = ParallelVector
	if p.Lanes <= 1 {
		p.Backend = Parallel
	}
	p.Queue = nil
	return p
}

// Sequential demotes the plan to one task, keeping vector bricks.
func (p Plan) Sequential() Plan {
	switch p.Backend {
	case ParallelVector, Device:
		p.Backend = Vector
		if p.Lanes <= 1 {
			p.Backend = Serial
		}
	case Parallel:
		p.Backend = Serial
	}
	p.Queue = nil
	return p
}

// Split reports whether n elements are worth splitting under this plan.
func (p Plan) Split(n int) bool {
	return p.Parallel() && !p.Exec.Serial(n)
}

// KernelName derives the name of one kernel of a pattern.
func (p Plan) KernelName(pattern string) string {
	return p.Kernel + "/" + pattern
}
