package execution

import (
	"sync"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/internal/logging"
)

var defaults struct {
	once     sync.Once
	queue    *device.Queue
	err      error
	fpgaOnce sync.Once
	fpga     *device.Queue
	fpgaErr  error
}

// DefaultDevicePolicy returns a policy on the process-wide default queue.
// The queue is created on first call and lives for the rest of the process;
// every call returns a policy sharing it.
func DefaultDevicePolicy() (DevicePolicy, error) {
	defaults.once.Do(func() {
		defaults.queue, defaults.err = device.NewQueueFromSelector(device.DefaultSelector)
		if defaults.err != nil {
			logging.For("execution").Warn().Err(defaults.err).Msg("Default device unavailable")
		}
	})
	if defaults.err != nil {
		return DevicePolicy{}, defaults.err
	}
	return MakeDevicePolicy(defaults.queue)
}

// DefaultFPGAPolicy returns a policy on the process-wide FPGA emulator queue.
func DefaultFPGAPolicy() (FPGAPolicy, error) {
	defaults.fpgaOnce.Do(func() {
		defaults.fpga, defaults.fpgaErr = device.NewQueueFromSelector(device.FPGAEmulatorSelector)
	})
	if defaults.fpgaErr != nil {
		return FPGAPolicy{}, defaults.fpgaErr
	}
	return MakeFPGAPolicy(defaults.fpga, 1)
}

// MustDefaultDevicePolicy is DefaultDevicePolicy that panics on error.
func MustDefaultDevicePolicy() DevicePolicy {
	p, err := DefaultDevicePolicy()
	if err != nil {
		panic(err)
	}
	return p
}
