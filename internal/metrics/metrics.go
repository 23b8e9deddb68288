// Package metrics holds the prometheus collectors shared across the library.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PatternInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pstl_pattern_invocations_total",
		Help: "Number of pattern invocations by pattern and chosen backend",
	}, []string{"pattern", "backend"})

	PatternElements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pstl_pattern_elements_total",
		Help: "Number of input elements handed to each pattern",
	}, []string{"pattern"})

	ParallelChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pstl_parallel_chunks_total",
		Help: "Total number of chunks executed by the parallel backend",
	})

	KernelsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pstl_device_kernels_submitted_total",
		Help: "Number of kernels submitted per device",
	}, []string{"device"})

	KernelFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pstl_device_kernel_failures_total",
		Help: "Number of kernels that failed during execution",
	}, []string{"device"})

	KernelCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pstl_device_kernel_cache_hits_total",
		Help: "Kernel submissions served from the compiled program cache",
	})

	KernelCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pstl_device_kernel_cache_misses_total",
		Help: "Kernel submissions that required a program build",
	})

	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pstl_device_kernel_duration_seconds",
		Help:    "Time spent executing a kernel on the device",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"device"})

	USMBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pstl_device_usm_bytes",
		Help: "Bytes currently held by device allocations",
	})

	StagedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pstl_device_staged_bytes_total",
		Help: "Bytes copied between host memory and temporary device buffers",
	})
)

// Record counts one pattern call.
func Record(pattern, backend string, n int) {
	PatternInvocations.WithLabelValues(pattern, backend).Inc()
	PatternElements.WithLabelValues(pattern).Add(float64(n))
}
