package simd

import (
	"fmt"
	"sync"

	"github.com/23skdu/longbow-pstl/internal/config"
)

// Level is the widest SIMD instruction set detected on this CPU.
type Level int

const (
	LevelScalar Level = iota
	LevelSSE2
	LevelNEON
	LevelAVX2
	LevelAVX512
)

func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelNEON:
		return "neon"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

var (
	detectOnce   sync.Once
	currentLevel Level
	currentWidth int
)

// load detects the instruction set on first use, after flags had a chance
// to set PSTL_NO_SIMD.
func load() {
	detectOnce.Do(func() {
		if config.Load().NoSIMD {
			return
		}
		currentLevel, currentWidth = detect()
	})
}

// CurrentLevel returns the detected instruction set.
func CurrentLevel() Level {
	load()
	return currentLevel
}

// Width is the vector register width in bytes, 0 when SIMD is disabled.
func Width() int {
	load()
	return currentWidth
}

// Lanes is how many elements of the given size fit one register, or 0.
func Lanes(elemSize int) int {
	w := Width()
	if elemSize <= 0 || w == 0 || elemSize > w {
		return 0
	}
	return w / elemSize
}
