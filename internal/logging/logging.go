// Package logging hands out the zerolog logger used inside the library.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/23skdu/longbow-pstl/internal/config"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Logger returns the library logger. Its level comes from PSTL_LOG_LEVEL
// (default warn); an unknown level disables logging.
func Logger() *zerolog.Logger {
	once.Do(func() {
		level, err := zerolog.ParseLevel(config.Load().LogLevel)
		if err != nil {
			level = zerolog.Disabled
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Str("lib", "pstl").Logger()
	})
	return &logger
}

// For returns a child logger tagged with a component name.
func For(component string) *zerolog.Logger {
	l := Logger().With().Str("component", component).Logger()
	return &l
}
