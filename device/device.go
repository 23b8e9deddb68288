// Package device is the device backend: a registry of compute devices,
// in-order command queues that run kernels over an ND-range, and unified
// shared memory (USM) allocations tied to a queue.
//
// The devices available in a default build are emulated on host goroutines:
// a CPU device and an FPGA emulator. Kernels keep device semantics (a global
// range split into work-groups, no ordering between groups) so algorithm code
// written against them is the same code a real accelerator would run.
package device

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/23skdu/longbow-pstl/internal/config"
	"github.com/23skdu/longbow-pstl/internal/logging"
)

var (
	ErrNoDevice             = errors.New("device: no device matches the selector")
	ErrQueueClosed          = errors.New("device: queue is closed")
	ErrNilQueue             = errors.New("device: nil queue")
	ErrInvalidKernel        = errors.New("device: kernel must set exactly one of Func or GroupFunc")
	ErrInvalidRange         = errors.New("device: negative global range")
	ErrInvalidWorkGroupSize = errors.New("device: work-group size exceeds device maximum")
	ErrInvalidSize          = errors.New("device: negative allocation size")
)

// logger is built on first use so that flags bound after process start
// still set its level.
var logger = sync.OnceValue(func() *zerolog.Logger {
	return logging.For("device")
})

// Type is the device category reported by Info.
type Type int

const (
	TypeCPU Type = iota
	TypeGPU
	TypeAccelerator
)

func (t Type) String() string {
	switch t {
	case TypeCPU:
		return "cpu"
	case TypeGPU:
		return "gpu"
	case TypeAccelerator:
		return "accelerator"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Info is the static description of a device.
type Info struct {
	Name             string
	Vendor           string
	Type             Type
	MaxComputeUnits  int
	MaxWorkGroupSize int
	LocalMemSize     int64
	GlobalMemSize    int64
	Emulated         bool
}

type Device struct {
	info Info
}

func (d *Device) Info() Info            { return d.info }
func (d *Device) Name() string          { return d.info.Name }
func (d *Device) Type() Type            { return d.info.Type }
func (d *Device) IsCPU() bool           { return d.info.Type == TypeCPU }
func (d *Device) IsGPU() bool           { return d.info.Type == TypeGPU }
func (d *Device) IsAccelerator() bool   { return d.info.Type == TypeAccelerator }
func (d *Device) MaxComputeUnits() int  { return d.info.MaxComputeUnits }
func (d *Device) MaxWorkGroupSize() int { return d.info.MaxWorkGroupSize }
func (d *Device) LocalMemSize() int64   { return d.info.LocalMemSize }

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s, %d compute units)", d.info.Name, d.info.Type, d.info.MaxComputeUnits)
}

func hostDevices() []*Device {
	cores := runtime.NumCPU()
	return []*Device{
		{info: Info{
			Name:             "host-cpu",
			Vendor:           runtime.GOARCH,
			Type:             TypeCPU,
			MaxComputeUnits:  cores,
			MaxWorkGroupSize: 8192,
			LocalMemSize:     256 << 10,
			GlobalMemSize:    16 << 30,
			Emulated:         true,
		}},
		{info: Info{
			Name:             "fpga-emulator",
			Vendor:           "emulation",
			Type:             TypeAccelerator,
			MaxComputeUnits:  max(1, cores/2),
			MaxWorkGroupSize: 1024,
			LocalMemSize:     64 << 10,
			GlobalMemSize:    4 << 30,
			Emulated:         true,
		}},
	}
}

var registry struct {
	once    sync.Once
	devices []*Device
}

// Devices lists every device visible to this process. PSTL_DEVICE=none hides
// all of them; PSTL_DEVICE=<type> keeps only devices of that type.
func Devices() []*Device {
	registry.once.Do(func() {
		registry.devices = discover(config.Load().Device)
		logger().Debug().Int("count", len(registry.devices)).Msg("Device discovery complete")
	})
	return append([]*Device(nil), registry.devices...)
}

func discover(filter string) []*Device {
	if filter == "none" {
		return nil
	}
	all := append(hostDevices(), platformDevices()...)
	if filter == "" {
		return all
	}
	var out []*Device
	for _, d := range all {
		if d.info.Type.String() == filter || strings.Contains(d.info.Name, filter) {
			out = append(out, d)
		}
	}
	return out
}

// Selector scores a device. The highest non-negative score wins; a negative
// score rejects the device.
type Selector func(d *Device) int

// DefaultSelector prefers a GPU, then the CPU, then any accelerator.
func DefaultSelector(d *Device) int {
	switch d.info.Type {
	case TypeGPU:
		return 300
	case TypeCPU:
		return 200
	default:
		return 100
	}
}

func CPUSelector(d *Device) int {
	if d.IsCPU() {
		return 1
	}
	return -1
}

func GPUSelector(d *Device) int {
	if d.IsGPU() {
		return 1
	}
	return -1
}

func AcceleratorSelector(d *Device) int {
	if d.IsAccelerator() {
		return 1
	}
	return -1
}

// FPGAEmulatorSelector accepts only the emulated FPGA.
func FPGAEmulatorSelector(d *Device) int {
	if d.IsAccelerator() && d.info.Emulated && strings.Contains(d.info.Name, "fpga") {
		return 1
	}
	return -1
}

// Select returns the device with the best score.
func Select(sel Selector) (*Device, error) {
	if sel == nil {
		sel = DefaultSelector
	}
	var best *Device
	bestScore := -1
	for _, d := range Devices() {
		if s := sel(d); s >= 0 && s > bestScore {
			best, bestScore = d, s
		}
	}
	if best == nil {
		return nil, ErrNoDevice
	}
	return best, nil
}
