//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func detect() (Level, int) {
	switch {
	case cpu.X86.HasAVX512F:
		return LevelAVX512, 64
	case cpu.X86.HasAVX2:
		return LevelAVX2, 32
	default:
		return LevelSSE2, 16
	}
}
