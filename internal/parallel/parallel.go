// Package parallel is the multi-core backend: it splits an index space into
// chunks and runs them on a bounded set of goroutines, blocking until every
// chunk has finished.
package parallel

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"

	"github.com/23skdu/longbow-pstl/internal/config"
	"github.com/23skdu/longbow-pstl/internal/metrics"
)

// oversubscription is how many chunks each worker gets at most, so that
// uneven chunks still balance out.
const oversubscription = 4

// Chunk is a half-open index range [Lo, Hi). Index is its position in the
// split so results can be combined in order.
type Chunk struct {
	Index  int
	Lo, Hi int
}

func (c Chunk) Len() int { return c.Hi - c.Lo }

// Executor runs chunked work. It keeps no goroutines between calls.
type Executor struct {
	workers int
	grain   int
}

func New(workers, grain int) *Executor {
	if workers < 1 {
		workers = 1
	}
	if grain < 1 {
		grain = 1
	}
	return &Executor{workers: workers, grain: grain}
}

var (
	defaultOnce sync.Once
	defaultExec *Executor
)

// Default returns the process-wide executor built from config.Load.
func Default() *Executor {
	defaultOnce.Do(func() {
		c := config.Load()
		defaultExec = New(c.Workers, c.GrainSize)
	})
	return defaultExec
}

func (e *Executor) Workers() int   { return e.workers }
func (e *Executor) GrainSize() int { return e.grain }

// MaxChunks is the largest number of chunks worth creating for n elements.
func (e *Executor) MaxChunks(n int) int {
	if n <= 0 {
		return 0
	}
	byGrain := (n + e.grain - 1) / e.grain
	return max(1, min(byGrain, e.workers*oversubscription))
}

// Serial reports whether n elements fit in a single chunk.
func (e *Executor) Serial(n int) bool {
	return e.workers == 1 || e.MaxChunks(n) <= 1
}

// Split divides [0, n) into MaxChunks(n) near-equal chunks.
func (e *Executor) Split(n int) []Chunk {
	return SplitN(n, e.MaxChunks(n))
}

// SplitN divides [0, n) into k near-equal chunks; the first n%k get one
// extra element.
func SplitN(n, k int) []Chunk {
	if n <= 0 || k <= 0 {
		return nil
	}
	k = min(k, n)
	chunks := make([]Chunk, k)
	base, rem := n/k, n%k
	lo := 0
	for i := range chunks {
		size := base
		if i < rem {
			size++
		}
		chunks[i] = Chunk{Index: i, Lo: lo, Hi: lo + size}
		lo += size
	}
	return chunks
}

// SplitBy divides [0, n) into chunks of size elements; the last may be
// shorter.
func SplitBy(n, size int) []Chunk {
	if n <= 0 {
		return nil
	}
	size = max(1, size)
	chunks := make([]Chunk, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		chunks = append(chunks, Chunk{Index: len(chunks), Lo: lo, Hi: min(n, lo+size)})
	}
	return chunks
}

// For splits [0, n) and calls fn once per chunk. Chunks are pulled by
// workers from a shared counter. A panic in fn is re-raised here with its
// original value once every worker has stopped.
func (e *Executor) For(n int, fn func(c Chunk)) {
	e.Run(e.Split(n), fn)
}

// Run is For over caller-provided chunks.
func (e *Executor) Run(chunks []Chunk, fn func(c Chunk)) {
	switch len(chunks) {
	case 0:
		return
	case 1:
		metrics.ParallelChunks.Inc()
		fn(chunks[0])
		return
	}

	metrics.ParallelChunks.Add(float64(len(chunks)))
	workers := min(e.workers, len(chunks))
	var next atomic.Int64
	var stop atomic.Bool
	var wg conc.WaitGroup
	for range workers {
		wg.Go(func() {
			for !stop.Load() {
				i := int(next.Add(1)) - 1
				if i >= len(chunks) {
					return
				}
				ok := false
				func() {
					defer func() {
						if !ok {
							stop.Store(true)
						}
					}()
					fn(chunks[i])
					ok = true
				}()
			}
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		panic(r.Value)
	}
}

// Submit runs fn per chunk and returns the results in chunk order.
func Submit[R any](e *Executor, n int, fn func(c Chunk) R) []R {
	chunks := e.Split(n)
	out := make([]R, len(chunks))
	e.Run(chunks, func(c Chunk) {
		out[c.Index] = fn(c)
	})
	return out
}

// Invoke runs fns concurrently and waits for all of them.
func (e *Executor) Invoke(fns ...func()) {
	if len(fns) == 0 {
		return
	}
	if e.workers == 1 || len(fns) == 1 {
		for _, fn := range fns {
			fn()
		}
		return
	}
	var wg conc.WaitGroup
	for _, fn := range fns[1:] {
		wg.Go(fn)
	}
	var first any
	func() {
		defer func() { first = recover() }()
		fns[0]()
	}()
	r := wg.WaitAndRecover()
	if first != nil {
		panic(first)
	}
	if r != nil {
		panic(r.Value)
	}
}
