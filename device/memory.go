package device

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/23skdu/longbow-pstl/internal/metrics"
)

// USMKind classifies memory relative to a queue.
type USMKind int

const (
	// USMUnknown is memory the queue did not allocate, i.e. plain host memory.
	USMUnknown USMKind = iota
	USMHost
	USMShared
	USMDevice
)

func (k USMKind) String() string {
	switch k {
	case USMHost:
		return "host"
	case USMShared:
		return "shared"
	case USMDevice:
		return "device"
	default:
		return "unknown"
	}
}

// Scalar element types may live in USM allocations.
type Scalar interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// Buffer is a typed allocation owned by a queue.
type Buffer[T any] struct {
	q        *Queue
	data     []T
	raw      []byte
	kind     USMKind
	released atomic.Bool
}

func (b *Buffer[T]) Slice() []T     { return b.data }
func (b *Buffer[T]) Len() int       { return len(b.data) }
func (b *Buffer[T]) Kind() USMKind  { return b.kind }
func (b *Buffer[T]) Queue() *Queue  { return b.q }
func (b *Buffer[T]) Released() bool { return b.released.Load() }

// Release returns the memory to the queue's allocator. The slice must not be
// used afterwards. Releasing twice is a no-op.
func (b *Buffer[T]) Release() {
	if !b.released.CompareAndSwap(false, true) {
		return
	}
	if len(b.data) > 0 {
		b.q.usm.remove(uintptr(unsafe.Pointer(unsafe.SliceData(b.data))))
	}
	if b.raw != nil {
		metrics.USMBytes.Sub(float64(len(b.raw)))
		b.q.alloc.Free(b.raw)
		b.raw = nil
	}
	b.data = nil
}

// Malloc allocates n elements of USM of the given kind on q.
func Malloc[T Scalar](q *Queue, n int, kind USMKind) (*Buffer[T], error) {
	if kind == USMUnknown {
		return nil, fmt.Errorf("device: cannot allocate memory of kind %s", kind)
	}
	return allocate[T](q, n, kind)
}

// Alloc allocates temporary device storage for n elements of any type.
// Element types holding pointers are kept on the Go heap, everything else
// comes from the queue's allocator.
func Alloc[T any](q *Queue, n int) (*Buffer[T], error) {
	return allocate[T](q, n, USMDevice)
}

func allocate[T any](q *Queue, n int, kind USMKind) (*Buffer[T], error) {
	if q == nil {
		return nil, ErrNilQueue
	}
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if q.Closed() {
		return nil, ErrQueueClosed
	}
	b := &Buffer[T]{q: q, kind: kind}
	if n == 0 {
		return b, nil
	}

	var zero T
	size := int(unsafe.Sizeof(zero))
	switch {
	case size == 0 || !PointerFree[T]():
		b.data = make([]T, n)
	default:
		b.raw = q.alloc.Allocate(n * size)
		b.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.raw))), n)
		clear(b.data)
		metrics.USMBytes.Add(float64(len(b.raw)))
	}
	q.usm.add(uintptr(unsafe.Pointer(unsafe.SliceData(b.data))), uintptr(n*max(size, 1)), kind)
	return b, nil
}

// PointerType reports which kind of queue allocation s points into.
func PointerType[T any](q *Queue, s []T) USMKind {
	if q == nil || len(s) == 0 {
		return USMUnknown
	}
	return q.usm.lookup(uintptr(unsafe.Pointer(unsafe.SliceData(s))))
}

type region struct {
	size uintptr
	kind USMKind
}

type usmTable struct {
	mu      sync.RWMutex
	regions map[uintptr]region
}

func (t *usmTable) add(base, size uintptr, kind USMKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.regions == nil {
		t.regions = make(map[uintptr]region)
	}
	t.regions[base] = region{size: size, kind: kind}
}

func (t *usmTable) remove(base uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.regions, base)
}

func (t *usmTable) lookup(addr uintptr) USMKind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for base, r := range t.regions {
		if addr >= base && addr < base+r.size {
			return r.kind
		}
	}
	return USMUnknown
}

var pointerFreeCache sync.Map

// PointerFree reports whether values of T contain no Go pointers and can
// therefore be copied bytewise into memory the garbage collector does not
// scan.
func PointerFree[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := pointerFreeCache.Load(t); ok {
		return v.(bool)
	}
	free := pointerFree(t)
	pointerFreeCache.Store(t, free)
	return free
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
