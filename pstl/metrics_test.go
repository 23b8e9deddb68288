package pstl

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/internal/metrics"
)

func TestMetricsRecordChosenBackend(t *testing.T) {
	par := metrics.PatternInvocations.WithLabelValues("sort", "parallel")
	serial := metrics.PatternInvocations.WithLabelValues("sort", "serial")
	beforePar, beforeSerial := testutil.ToFloat64(par), testutil.ToFloat64(serial)

	// Strings hold pointers, so Par stays on the plain parallel backend.
	Sort(execution.Par, []string{"b", "a"})
	Sort(execution.Seq, []int{2, 1})

	assert.Equal(t, beforePar+1, testutil.ToFloat64(par))
	assert.Equal(t, beforeSerial+1, testutil.ToFloat64(serial))
}

func TestMetricsCountKernels(t *testing.T) {
	q, err := device.NewQueueFromSelector(device.CPUSelector)
	require.NoError(t, err)
	defer func() { require.NoError(t, q.Close()) }()
	p, err := execution.MakeDevicePolicy(q)
	require.NoError(t, err)

	submitted := metrics.KernelsSubmitted.WithLabelValues(q.Device().Name())
	before := testutil.ToFloat64(submitted)
	Fill(p, make([]int, 100), 1)
	assert.Greater(t, testutil.ToFloat64(submitted), before)
}
