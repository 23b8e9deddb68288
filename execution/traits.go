package execution

// IsExecutionPolicy reports whether v is a policy value.
func IsExecutionPolicy(v any) bool {
	_, ok := v.(Policy)
	return ok
}

// IsParallel reports whether p may run element operations concurrently.
func IsParallel(p Policy) bool {
	return p != nil && p.AllowParallel()
}

// IsHeteroPolicy reports whether p targets a device queue.
func IsHeteroPolicy(p Policy) bool {
	_, ok := p.(Hetero)
	return ok
}

// IsDevicePolicy reports whether p is a plain device policy.
func IsDevicePolicy(p Policy) bool {
	_, ok := p.(DevicePolicy)
	return ok
}

func IsFPGAPolicy(p Policy) bool {
	_, ok := p.(FPGAPolicy)
	return ok
}

// UnrollFactor is the FPGA unroll factor of p, or 1.
func UnrollFactor(p Policy) int {
	if f, ok := p.(FPGAPolicy); ok {
		return f.UnrollFactor()
	}
	return 1
}
