package config

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every PSTL_* variable for the test; viper treats an
// empty variable as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeyWorkers, KeyGrainSize, KeyNoSIMD, KeyDevice, KeyLogLevel, KeyMaxInFlight} {
		t.Setenv("PSTL_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")), "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PSTL_WORKERS", "3")
	t.Setenv("PSTL_GRAIN_SIZE", "128")
	t.Setenv("PSTL_NO_SIMD", "true")
	t.Setenv("PSTL_DEVICE", " None ")
	Reset()
	defer Reset()

	c := Load()
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 128, c.GrainSize)
	assert.True(t, c.NoSIMD)
	assert.Equal(t, "none", c.Device)
}

func TestLoadClamps(t *testing.T) {
	clearEnv(t)
	Reset()
	defer Reset()

	Set(KeyWorkers, 0)
	Set(KeyGrainSize, -5)
	Set(KeyMaxInFlight, 0)

	c := Load()
	assert.Equal(t, 1, c.Workers)
	assert.Equal(t, 1, c.GrainSize)
	assert.Equal(t, 1, c.MaxInFlight)
}

func TestBindFlags(t *testing.T) {
	clearEnv(t)
	Reset()
	defer Reset()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int(KeyWorkers, 1, "")
	fs.String(KeyLogLevel, "warn", "")
	require.NoError(t, fs.Parse([]string{"--workers=7", "--log-level=debug"}))
	require.NoError(t, Bind(fs))

	c := Load()
	assert.Equal(t, 7, c.Workers)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, DefaultGrainSize, c.GrainSize)
}
