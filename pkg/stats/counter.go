// Package stats keeps per-command usage counters.
package stats

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Count is one command's usage total
type Count struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

// Counter counts command invocations by name. The map only grows, so after
// the first use of a name the increment is a single atomic add.
type Counter struct {
	mu     sync.RWMutex
	counts map[string]*atomic.Uint64
}

// NewCounter creates an empty Counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]*atomic.Uint64)}
}

var (
	global     *Counter
	globalOnce sync.Once
)

// Global returns the process wide counter
func Global() *Counter {
	globalOnce.Do(func() {
		global = NewCounter()
	})
	return global
}

func (c *Counter) slot(name string) *atomic.Uint64 {
	c.mu.RLock()
	n, ok := c.counts[name]
	c.mu.RUnlock()
	if ok {
		return n
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok = c.counts[name]; !ok {
		n = new(atomic.Uint64)
		c.counts[name] = n
	}
	return n
}

// Increment adds one use of name and returns the new total
func (c *Counter) Increment(name string) uint64 {
	return c.slot(name).Add(1)
}

// Get returns the total for name, zero if it was never used
func (c *Counter) Get(name string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n, ok := c.counts[name]; ok {
		return n.Load()
	}
	return 0
}

// Snapshot returns every total sorted by name
func (c *Counter) Snapshot() []Count {
	c.mu.RLock()
	out := make([]Count, 0, len(c.counts))
	for name, n := range c.counts {
		out = append(out, Count{Name: name, Count: n.Load()})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
