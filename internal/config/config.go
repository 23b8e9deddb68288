// Package config resolves the runtime knobs shared by the parallel and
// device backends. Values come from PSTL_* environment variables, with
// command-line flags able to override them through Bind.
package config

import (
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyWorkers     = "workers"
	KeyGrainSize   = "grain-size"
	KeyNoSIMD      = "no-simd"
	KeyDevice      = "device"
	KeyLogLevel    = "log-level"
	KeyMaxInFlight = "max-inflight"
)

// DefaultGrainSize is the smallest number of elements worth handing to a
// separate task.
const DefaultGrainSize = 2048

type Config struct {
	Workers     int
	GrainSize   int
	NoSIMD      bool
	Device      string
	LogLevel    string
	MaxInFlight int
}

var (
	mu sync.Mutex
	v  = newViper()
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PSTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyWorkers, runtime.GOMAXPROCS(0))
	v.SetDefault(KeyGrainSize, DefaultGrainSize)
	v.SetDefault(KeyNoSIMD, false)
	v.SetDefault(KeyDevice, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyMaxInFlight, 64)
	return v
}

// Load returns the current configuration. Nonsensical values are clamped.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()

	c := Config{
		Workers:     v.GetInt(KeyWorkers),
		GrainSize:   v.GetInt(KeyGrainSize),
		NoSIMD:      v.GetBool(KeyNoSIMD),
		Device:      strings.ToLower(strings.TrimSpace(v.GetString(KeyDevice))),
		LogLevel:    v.GetString(KeyLogLevel),
		MaxInFlight: v.GetInt(KeyMaxInFlight),
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.GrainSize < 1 {
		c.GrainSize = 1
	}
	if c.MaxInFlight < 1 {
		c.MaxInFlight = 1
	}
	return c
}

// Bind makes the flags in fs (named after the Key* constants) take
// precedence over the environment.
func Bind(fs *pflag.FlagSet) error {
	mu.Lock()
	defer mu.Unlock()

	for _, key := range []string{KeyWorkers, KeyGrainSize, KeyNoSIMD, KeyDevice, KeyLogLevel, KeyMaxInFlight} {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set overrides a single key. Intended for tests and the CLI.
func Set(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	v.Set(key, value)
}

// Reset drops all overrides and re-reads the environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	v = newViper()
}
