package pstl

import (
	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/execution"
)

// MallocShared allocates n elements of shared USM on the policy's queue.
// Only device and FPGA policies carry a queue, so host policies are
// rejected at compile time.
func MallocShared[T device.Scalar](p execution.Hetero, n int) (*device.Buffer[T], error) {
	return device.Malloc[T](p.Queue(), n, device.USMShared)
}

// MallocDevice allocates n elements of device USM on the policy's queue.
func MallocDevice[T device.Scalar](p execution.Hetero, n int) (*device.Buffer[T], error) {
	return device.Malloc[T](p.Queue(), n, device.USMDevice)
}
