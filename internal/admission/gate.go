// Package admission bounds how many sale submissions may be in flight at once.
package admission

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultCapacity is the number of concurrent sales admitted when nothing is configured.
const DefaultCapacity = 3

// Gate is a non-blocking counting gate. One Gate is created at startup and shared by every request.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

// NewGate creates a Gate admitting at most capacity holders.
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// TryAcquire takes a slot if one is free and reports whether it did. It never waits.
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.inFlight.Add(1)
	return true
}

// Release frees a slot taken by a successful TryAcquire.
func (g *Gate) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

// Capacity returns the configured limit.
func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// InFlight returns the number of slots currently held.
func (g *Gate) InFlight() int {
	return int(g.inFlight.Load())
}
