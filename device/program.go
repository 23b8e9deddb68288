package device

import (
	"sync"
	"time"

	"github.com/23skdu/longbow-pstl/internal/metrics"
)

// defaultWorkGroupSize caps the work-group size picked for a kernel that
// does not request one.
const defaultWorkGroupSize = 1024

// Program is a built kernel: what a device compiles once per kernel name.
type Program struct {
	Name          string
	WorkGroupSize int
	BuiltAt       time.Time
}

// ProgramCache maps kernel names to built programs.
type ProgramCache interface {
	Get(name string) (Program, bool)
	Put(p Program)
	Size() int
}

// mapCache is the in-memory ProgramCache used by every queue.
type mapCache struct {
	data map[string]Program
	mu   sync.RWMutex
}

func newMapCache() *mapCache {
	return &mapCache{
		data: make(map[string]Program),
	}
}

func (c *mapCache) Get(name string) (Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.data[name]
	return p, ok
}

func (c *mapCache) Put(p Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[p.Name] = p
}

func (c *mapCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// build picks the work-group size for a kernel on d. CPU devices run a
// quarter of the maximum so each group stays cache resident.
func build(name string, d *Device) Program {
	wg := min(d.info.MaxWorkGroupSize, defaultWorkGroupSize)
	if d.IsCPU() {
		wg = max(1, wg/4)
	}
	return Program{Name: name, WorkGroupSize: wg, BuiltAt: time.Now()}
}

func (q *Queue) program(name string) Program {
	if p, ok := q.programs.Get(name); ok {
		metrics.KernelCacheHits.Inc()
		return p
	}
	metrics.KernelCacheMisses.Inc()
	p := build(name, q.dev)
	q.programs.Put(p)
	logger().Debug().Str("kernel", name).Int("work_group_size", p.WorkGroupSize).Str("device", q.dev.Name()).Msg("Built kernel program")
	return p
}
