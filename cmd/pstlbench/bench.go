package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/23skdu/longbow-pstl/execution"
	"github.com/23skdu/longbow-pstl/pstl"
)

var (
	errUnknownAlgo   = errors.New("unknown algorithm")
	errUnknownPolicy = errors.New("unknown policy")
	errBadRequest    = errors.New("bad request")
)

type RunRequest struct {
	Algo   string `cbor:"algo"`
	N      int    `cbor:"n"`
	Policy string `cbor:"policy"`
	Repeat int    `cbor:"repeat"`
	Seed   uint64 `cbor:"seed,omitempty"`
}

type RunResult struct {
	Algo      string          `cbor:"algo"`
	Policy    string          `cbor:"policy"`
	N         int             `cbor:"n"`
	Durations []time.Duration `cbor:"durations_ns"`
	Best      time.Duration   `cbor:"best_ns"`
	Mean      time.Duration   `cbor:"mean_ns"`
	// Checksum is derived from the algorithm's output so runs under
	// different policies can be compared.
	Checksum int64 `cbor:"checksum"`
}

type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}

type benchRunner struct{}

func (benchRunner) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	return runBench(ctx, req)
}

// workload is one timed algorithm. prepare, when set, shapes the random
// input before the clock starts.
type workload struct {
	prepare func(s []int64)
	run     func(p execution.Policy, s []int64) int64
}

func isEven(v int64) bool { return v%2 == 0 }

func plus(a, b int64) int64 { return a + b }

func sortHalves(s []int64) {
	slices.Sort(s[:len(s)/2])
	slices.Sort(s[len(s)/2:])
}

var workloads = map[string]workload{
	"sort": {run: func(p execution.Policy, s []int64) int64 {
		pstl.Sort(p, s)
		return s[len(s)/2]
	}},
	"stable_sort": {run: func(p execution.Policy, s []int64) int64 {
		pstl.StableSort(p, s)
		return s[len(s)/2]
	}},
	"nth_element": {run: func(p execution.Policy, s []int64) int64 {
		pstl.NthElement(p, s, len(s)/2)
		return s[len(s)/2]
	}},
	"reduce": {run: func(p execution.Policy, s []int64) int64 {
		return pstl.Reduce(p, s)
	}},
	"inner_product": {run: func(p execution.Policy, s []int64) int64 {
		return pstl.InnerProduct(p, s, s, 0)
	}},
	"inclusive_scan": {run: func(p execution.Policy, s []int64) int64 {
		pstl.InclusiveScan(p, s, s)
		return s[len(s)-1]
	}},
	"exclusive_scan": {run: func(p execution.Policy, s []int64) int64 {
		dst := make([]int64, len(s))
		pstl.ExclusiveScan(p, s, dst, 0)
		return dst[len(dst)-1]
	}},
	"transform": {run: func(p execution.Policy, s []int64) int64 {
		pstl.Transform(p, s, s, func(v int64) int64 { return 2*v + 1 })
		return s[0]
	}},
	"for_each": {run: func(p execution.Policy, s []int64) int64 {
		pstl.ForEach(p, s, func(v *int64) { *v ^= 0x5bd1e995 })
		return s[0]
	}},
	"find": {run: func(p execution.Policy, s []int64) int64 {
		return int64(pstl.FindIf(p, s, func(v int64) bool { return v < 0 }))
	}},
	"count_if": {run: func(p execution.Policy, s []int64) int64 {
		return int64(pstl.CountIf(p, s, isEven))
	}},
	"minmax_element": {run: func(p execution.Policy, s []int64) int64 {
		mn, mx := pstl.MinMaxElement(p, s)
		return s[mx] - s[mn]
	}},
	"copy_if": {run: func(p execution.Policy, s []int64) int64 {
		dst := make([]int64, len(s))
		return int64(pstl.CopyIf(p, s, dst, isEven))
	}},
	"remove_if": {run: func(p execution.Policy, s []int64) int64 {
		return int64(pstl.RemoveIf(p, s, isEven))
	}},
	"stable_partition": {run: func(p execution.Policy, s []int64) int64 {
		return int64(pstl.StablePartition(p, s, isEven))
	}},
	"unique": {
		prepare: slices.Sort[[]int64],
		run: func(p execution.Policy, s []int64) int64 {
			return int64(pstl.Unique(p, s))
		},
	},
	"merge": {
		prepare: sortHalves,
		run: func(p execution.Policy, s []int64) int64 {
			dst := make([]int64, len(s))
			pstl.Merge(p, s[:len(s)/2], s[len(s)/2:], dst)
			return dst[len(dst)/2]
		},
	},
	"set_union": {
		prepare: sortHalves,
		run: func(p execution.Policy, s []int64) int64 {
			dst := make([]int64, len(s))
			return int64(pstl.SetUnion(p, s[:len(s)/2], s[len(s)/2:], dst))
		},
	},
	"adjacent_difference": {run: func(p execution.Policy, s []int64) int64 {
		dst := make([]int64, len(s))
		pstl.AdjacentDifference(p, s, dst)
		return pstl.ReduceFunc(p, dst, 0, plus)
	}},
}

func workloadNames() []string {
	names := lo.Keys(workloads)
	slices.Sort(names)
	return names
}

// policyByName maps a policy name to a policy. device and fpga use the
// process-wide default queues.
func policyByName(name string) (execution.Policy, error) {
	switch strings.ToLower(name) {
	case "seq":
		return execution.Seq, nil
	case "unseq":
		return execution.Unseq, nil
	case "par":
		return execution.Par, nil
	case "par_unseq":
		return execution.ParUnseq, nil
	case "device":
		p, err := execution.DefaultDevicePolicy()
		if err != nil {
			return nil, err
		}
		return p, nil
	case "fpga":
		p, err := execution.DefaultFPGAPolicy()
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownPolicy, name)
	}
}

// generate returns n pseudo-random values; the same seed gives the same
// input.
func generate(n int, seed uint64) []int64 {
	r := rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
	return lo.Times(n, func(int) int64 {
		return r.Int64N(1 << 40)
	})
}

var tracer = otel.Tracer("pstlbench")

// runBench times req.Repeat runs of the workload, each on freshly
// generated input. The checksum comes from the last run.
func runBench(ctx context.Context, req RunRequest) (res RunResult, err error) {
	w, ok := workloads[req.Algo]
	if !ok {
		return RunResult{}, fmt.Errorf("%w %q", errUnknownAlgo, req.Algo)
	}
	if req.N < 1 {
		return RunResult{}, fmt.Errorf("%w: n must be positive, got %d", errBadRequest, req.N)
	}
	if req.Repeat < 1 {
		req.Repeat = 1
	}
	p, err := policyByName(req.Policy)
	if err != nil {
		return RunResult{}, err
	}

	ctx, span := tracer.Start(ctx, "bench "+req.Algo)
	defer span.End()
	span.SetAttributes(
		attribute.String("pstl.policy", p.String()),
		attribute.Int("pstl.n", req.N),
		attribute.Int("pstl.repeat", req.Repeat),
	)

	// Algorithms report failures by panicking; a server must survive them.
	defer func() {
		if r := recover(); r != nil {
			res = RunResult{}
			err = fmt.Errorf("%s under %s: %v", req.Algo, p, r)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	res = RunResult{Algo: req.Algo, Policy: p.String(), N: req.N}
	for i := range req.Repeat {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		data := generate(req.N, req.Seed+uint64(i))
		if w.prepare != nil {
			w.prepare(data)
		}
		start := time.Now()
		res.Checksum = w.run(p, data)
		res.Durations = append(res.Durations, time.Since(start))
	}

	res.Best = slices.Min(res.Durations)
	res.Mean = lo.Sum(res.Durations) / time.Duration(len(res.Durations))
	log.Debug().
		Str("algo", res.Algo).
		Str("policy", res.Policy).
		Int("n", res.N).
		Dur("best", res.Best).
		Msg("Benchmark complete")
	return res, nil
}
