// Package execution defines the execution policies accepted by every
// algorithm in package pstl: where an algorithm may run and which
// reorderings of element operations it may perform.
package execution

import (
	"errors"
	"fmt"

	"github.com/23skdu/longbow-pstl/device"
)

// ErrNoQueue is returned for a device policy that wraps no queue.
var ErrNoQueue = errors.New("execution: device policy has no queue")

const (
	DefaultKernelName     = "DefaultKernelName"
	DefaultKernelNameFPGA = "DefaultKernelNameFPGA"
)

// Kind is the closed set of policy kinds.
type Kind int

const (
	KindSequenced Kind = iota
	KindUnsequenced
	KindParallel
	KindParallelUnsequenced
	KindDevice
	KindFPGA
)

func (k Kind) String() string {
	switch k {
	case KindSequenced:
		return "seq"
	case KindUnsequenced:
		return "unseq"
	case KindParallel:
		return "par"
	case KindParallelUnsequenced:
		return "par_unseq"
	case KindDevice:
		return "device"
	case KindFPGA:
		return "fpga"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Policy is implemented only by the policy types of this package.
type Policy interface {
	Kind() Kind
	// AllowUnsequenced reports whether element operations of one task may
	// be interleaved, e.g. over SIMD lanes.
	AllowUnsequenced() bool
	// AllowParallel reports whether element operations may run on more
	// than one thread of execution.
	AllowParallel() bool
	// Validate reports why the policy cannot run an algorithm.
	Validate() error
	String() string

	sealed()
}

// Hetero is a policy that targets a device queue.
type Hetero interface {
	Policy
	Queue() *device.Queue
	KernelName() string
}

// HostPolicy runs on the calling process's CPUs.
type HostPolicy struct {
	kind Kind
}

var (
	Seq      = HostPolicy{kind: KindSequenced}
	Unseq    = HostPolicy{kind: KindUnsequenced}
	Par      = HostPolicy{kind: KindParallel}
	ParUnseq = HostPolicy{kind: KindParallelUnsequenced}
)

func (p HostPolicy) Kind() Kind { return p.kind }

func (p HostPolicy) AllowUnsequenced() bool {
	return p.kind == KindUnsequenced || p.kind == KindParallelUnsequenced
}

func (p HostPolicy) AllowParallel() bool {
	return p.kind == KindParallel || p.kind == KindParallelUnsequenced
}

func (HostPolicy) Validate() error  { return nil }
func (p HostPolicy) String() string { return p.kind.String() }
func (HostPolicy) sealed()          {}

// DevicePolicy runs algorithms as kernels on a queue. The kernel name
// prefixes every kernel the algorithm submits.
type DevicePolicy struct {
	queue *device.Queue
	name  string
}

// MakeDevicePolicy wraps q.
func MakeDevicePolicy(q *device.Queue) (DevicePolicy, error) {
	if q == nil {
		return DevicePolicy{}, ErrNoQueue
	}
	return DevicePolicy{queue: q, name: DefaultKernelName}, nil
}

// MakeDevicePolicyFromDevice starts a new queue on d and wraps it. The
// caller owns the queue and closes it through Queue().Close().
func MakeDevicePolicyFromDevice(d *device.Device, opts ...device.Option) (DevicePolicy, error) {
	q, err := device.NewQueue(d, opts...)
	if err != nil {
		return DevicePolicy{}, fmt.Errorf("make device policy: %w", err)
	}
	return MakeDevicePolicy(q)
}

func (DevicePolicy) Kind() Kind             { return KindDevice }
func (DevicePolicy) AllowUnsequenced() bool { return true }
func (DevicePolicy) AllowParallel() bool    { return true }
func (p DevicePolicy) Queue() *device.Queue { return p.queue }
func (p DevicePolicy) KernelName() string   { return p.name }
func (DevicePolicy) sealed()                {}

func (p DevicePolicy) Validate() error {
	if p.queue == nil {
		return ErrNoQueue
	}
	if p.queue.Closed() {
		return device.ErrQueueClosed
	}
	return nil
}

func (p DevicePolicy) String() string {
	if p.queue == nil {
		return "device(<nil>)"
	}
	return fmt.Sprintf("device(%s, %s)", p.queue.Device().Name(), p.name)
}

// WithKernelName returns a policy on the same queue with a new kernel name.
func (p DevicePolicy) WithKernelName(name string) DevicePolicy {
	p.name = name
	return p
}

// FPGAPolicy is a device policy for FPGA targets. Unroll is the loop
// unroll factor given to kernels.
type FPGAPolicy struct {
	DevicePolicy
	unroll int
}

// MakeFPGAPolicy wraps q with the given unroll factor (at least 1).
func MakeFPGAPolicy(q *device.Queue, unroll int) (FPGAPolicy, error) {
	dp, err := MakeDevicePolicy(q)
	if err != nil {
		return FPGAPolicy{}, err
	}
	dp.name = DefaultKernelNameFPGA
	return FPGAPolicy{DevicePolicy: dp, unroll: max(1, unroll)}, nil
}

func (FPGAPolicy) Kind() Kind          { return KindFPGA }
func (p FPGAPolicy) UnrollFactor() int { return max(1, p.unroll) }

func (p FPGAPolicy) String() string {
	return fmt.Sprintf("fpga(%s, unroll=%d)", p.DevicePolicy.String(), p.UnrollFactor())
}

func (p FPGAPolicy) WithKernelName(name string) FPGAPolicy {
	p.name = name
	return p
}

func (p FPGAPolicy) WithUnrollFactor(n int) FPGAPolicy {
	p.unroll = max(1, n)
	return p
}

var (
	_ Policy = HostPolicy{}
	_ Hetero = DevicePolicy{}
	_ Hetero = FPGAPolicy{}
)
