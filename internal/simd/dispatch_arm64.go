//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func detect() (Level, int) {
	if cpu.ARM64.HasASIMD {
		return LevelNEON, 16
	}
	return LevelScalar, 0
}
