//go:build !amd64 && !arm64

package simd

func detect() (Level, int) {
	return LevelScalar, 0
}
