package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/23skdu/longbow-pstl/internal/config"
	"github.com/23skdu/longbow-pstl/internal/metrics"
)

var tracer = otel.Tracer("longbow-pstl/device")

// NDRange is the iteration space of a kernel. Local is the work-group size;
// zero lets the queue pick the size the kernel was built with.
type NDRange struct {
	Global int
	Local  int
}

// Item identifies one work-item.
type Item struct {
	Global      int
	Local       int
	Group       int
	GlobalRange int
	LocalRange  int
}

// Group is one work-group: the global indices [Lo, Hi).
type Group struct {
	ID          int
	Lo, Hi      int
	LocalRange  int
	GlobalRange int
	NumGroups   int
}

// Kernel is a unit of device work. Exactly one of Func and GroupFunc is set.
// Work-groups may run concurrently and in any order; the items of one group
// run in index order.
type Kernel struct {
	Name      string
	Range     NDRange
	Func      func(it Item)
	GroupFunc func(g Group)
}

// KernelError reports a kernel that panicked on the device.
type KernelError struct {
	Kernel string
	Device string
	Value  any
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("device %s: kernel %q failed: %v", e.Device, e.Kernel, e.Value)
}

func (e *KernelError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Event tracks one submission.
type Event struct {
	done chan struct{}
	err  error
}

func newEvent() *Event { return &Event{done: make(chan struct{})} }

func (e *Event) complete(err error) {
	e.err = err
	close(e.done)
}

// Wait blocks until the kernel finished and returns its failure, if any.
func (e *Event) Wait() error {
	<-e.done
	return e.err
}

func (e *Event) Done() <-chan struct{} { return e.done }

type task struct {
	ctx    context.Context
	kernel Kernel
	local  int
	ev     *Event
}

// Queue is an in-order command queue bound to one device.
type Queue struct {
	dev      *Device
	alloc    memory.Allocator
	sem      *semaphore.Weighted
	programs ProgramCache
	usm      usmTable

	mu      sync.RWMutex
	closed  bool
	tasks   chan *task
	pending sync.WaitGroup
	stopped chan struct{}
}

type Option func(*Queue)

// WithAllocator sets the allocator behind USM and temporary buffers.
func WithAllocator(a memory.Allocator) Option {
	return func(q *Queue) { q.alloc = a }
}

// WithMaxInFlight bounds the number of kernels submitted but not finished.
func WithMaxInFlight(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.sem = semaphore.NewWeighted(int64(n))
			q.tasks = make(chan *task, n)
		}
	}
}

// WithProgramCache replaces the per-queue program cache.
func WithProgramCache(c ProgramCache) Option {
	return func(q *Queue) { q.programs = c }
}

// NewQueue starts a queue on d.
func NewQueue(d *Device, opts ...Option) (*Queue, error) {
	if d == nil {
		return nil, ErrNoDevice
	}
	inflight := config.Load().MaxInFlight
	q := &Queue{
		dev:      d,
		alloc:    memory.NewGoAllocator(),
		sem:      semaphore.NewWeighted(int64(inflight)),
		programs: newMapCache(),
		tasks:    make(chan *task, inflight),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.run()
	logger().Debug().Str("device", d.Name()).Msg("Queue created")
	return q, nil
}

// NewQueueFromSelector starts a queue on the device sel prefers.
func NewQueueFromSelector(sel Selector, opts ...Option) (*Queue, error) {
	d, err := Select(sel)
	if err != nil {
		return nil, err
	}
	return NewQueue(d, opts...)
}

func (q *Queue) Device() *Device { return q.dev }

func (q *Queue) Allocator() memory.Allocator { return q.alloc }

func (q *Queue) MaxWorkGroupSize() int { return q.dev.MaxWorkGroupSize() }
func (q *Queue) MaxComputeUnits() int  { return q.dev.MaxComputeUnits() }
func (q *Queue) LocalMemSize() int64   { return q.dev.LocalMemSize() }

// WorkGroupSize is the size a kernel named name runs with when its range
// leaves Local at zero.
func (q *Queue) WorkGroupSize(name string) int { return q.program(name).WorkGroupSize }

// CompiledKernels is the number of distinct kernel names built so far.
func (q *Queue) CompiledKernels() int { return q.programs.Size() }

func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Submit validates k, builds it on first use and enqueues it. The returned
// event completes once every work-group has run.
func (q *Queue) Submit(ctx context.Context, k Kernel) (*Event, error) {
	if q == nil {
		return nil, ErrNilQueue
	}
	if (k.Func == nil) == (k.GroupFunc == nil) {
		return nil, ErrInvalidKernel
	}
	if k.Range.Global < 0 {
		return nil, ErrInvalidRange
	}
	if k.Name == "" {
		k.Name = "anonymous"
	}
	local := k.Range.Local
	if local > q.dev.MaxWorkGroupSize() {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidWorkGroupSize, local, q.dev.MaxWorkGroupSize())
	}
	if local <= 0 {
		local = q.program(k.Name).WorkGroupSize
	}

	if err := q.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.sem.Release(1)
		return nil, ErrQueueClosed
	}
	ev := newEvent()
	q.pending.Add(1)
	q.tasks <- &task{ctx: ctx, kernel: k, local: local, ev: ev}
	metrics.KernelsSubmitted.WithLabelValues(q.dev.Name()).Inc()
	return ev, nil
}

// Run submits k and waits for it.
func (q *Queue) Run(ctx context.Context, k Kernel) error {
	ev, err := q.Submit(ctx, k)
	if err != nil {
		return err
	}
	return ev.Wait()
}

// Wait blocks until every submitted kernel has completed.
func (q *Queue) Wait() {
	q.pending.Wait()
}

// Close drains the queue and stops its worker. Closing twice is a no-op.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	<-q.stopped
	logger().Debug().Str("device", q.dev.Name()).Msg("Queue closed")
	return nil
}

func (q *Queue) run() {
	defer close(q.stopped)
	for t := range q.tasks {
		t.ev.complete(q.execute(t))
		q.sem.Release(1)
		q.pending.Done()
	}
}

func (q *Queue) execute(t *task) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	k := t.kernel
	_, span := tracer.Start(t.ctx, "kernel "+k.Name, trace.WithAttributes(
		attribute.String("pstl.device", q.dev.Name()),
		attribute.String("pstl.kernel", k.Name),
		attribute.Int("pstl.global_range", k.Range.Global),
		attribute.Int("pstl.local_range", t.local),
	))
	defer span.End()

	start := time.Now()
	err := q.launch(k, t.local)
	metrics.KernelDuration.WithLabelValues(q.dev.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.KernelFailures.WithLabelValues(q.dev.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "kernel failed")
	}
	return err
}

// launch runs the work-groups of k, at most MaxComputeUnits at a time.
// Groups not yet started are skipped once one of them fails.
func (q *Queue) launch(k Kernel, local int) error {
	global := k.Range.Global
	if global == 0 {
		return nil
	}
	groups := (global + local - 1) / local

	eg, gctx := errgroup.WithContext(context.Background())
	eg.SetLimit(max(1, q.dev.MaxComputeUnits()))
	for id := range groups {
		if gctx.Err() != nil {
			break
		}
		g := Group{
			ID:          id,
			Lo:          id * local,
			Hi:          min(global, (id+1)*local),
			LocalRange:  local,
			GlobalRange: global,
			NumGroups:   groups,
		}
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &KernelError{Kernel: k.Name, Device: q.dev.Name(), Value: r}
				}
			}()
			runGroup(k, g)
			return nil
		})
	}
	return eg.Wait()
}

func runGroup(k Kernel, g Group) {
	if k.GroupFunc != nil {
		k.GroupFunc(g)
		return
	}
	for i := g.Lo; i < g.Hi; i++ {
		k.Func(Item{
			Global:      i,
			Local:       i - g.Lo,
			Group:       g.ID,
			GlobalRange: g.GlobalRange,
			LocalRange:  g.LocalRange,
		})
	}
}
