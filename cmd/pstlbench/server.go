package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"
)

var (
	runsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pstlbench_runs_total",
		Help: "Benchmark runs served, by algorithm and outcome",
	}, []string{"algo", "outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pstlbench_request_duration_seconds",
		Help:    "Time spent serving /run requests",
		Buckets: prometheus.DefBuckets,
	})
)

type Server struct {
	runner Runner
	// sem bounds the elements being processed across all requests.
	sem      *semaphore.Weighted
	capacity int64
}

func NewServer(runner Runner, maxElements int64) *Server {
	maxElements = max(maxElements, 1)
	return &Server{
		runner:   runner,
		sem:      semaphore.NewWeighted(maxElements),
		capacity: maxElements,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func startServer(ctx context.Context, addr string, runner Runner, maxElements int64) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(runner, maxElements).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Str("addr", addr).Int64("max_elements", maxElements).Msg("Starting pstlbench server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleRun")
	defer span.End()

	start := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RunRequest
	if err := cbor.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		http.Error(w, fmt.Sprintf("Bad Request (CBOR decode): %v", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("pstl.algo", req.Algo),
		attribute.String("pstl.policy", req.Policy),
		attribute.Int("pstl.n", req.N),
	)

	// Admission control over elements in flight.
	weight := max(int64(req.N), 1)
	if weight > s.capacity {
		log.Warn().Int("n", req.N).Int64("capacity", s.capacity).Msg("Rejecting oversized run")
		runsServed.WithLabelValues(algoLabel(req.Algo), "rejected").Inc()
		http.Error(w, fmt.Sprintf("n=%d exceeds server capacity of %d elements", req.N, s.capacity), http.StatusRequestEntityTooLarge)
		return
	}
	if err := s.sem.Acquire(ctx, weight); err != nil {
		log.Error().Err(err).Msg("Failed to acquire semaphore")
		http.Error(w, "Server busy", http.StatusServiceUnavailable)
		return
	}
	defer s.sem.Release(weight)

	algo := algoLabel(req.Algo)
	res, err := s.runner.Run(ctx, req)
	if err != nil {
		span.RecordError(err)
		runsServed.WithLabelValues(algo, "error").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, errUnknownAlgo) || errors.Is(err, errUnknownPolicy) || errors.Is(err, errBadRequest) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	runsServed.WithLabelValues(algo, "ok").Inc()

	w.Header().Set("Content-Type", "application/cbor")
	if err := cbor.NewEncoder(w).Encode(res); err != nil {
		log.Warn().Err(err).Msg("Failed to write run result")
	}
}

func algoLabel(algo string) string {
	if _, ok := workloads[algo]; !ok {
		return "unknown"
	}
	return algo
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
