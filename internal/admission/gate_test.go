package admission_test

import (
	"sync"
	"testing"

	"tokopos/internal/admission"

	"github.com/stretchr/testify/assert"
)

func TestGate_RejectsBeyondCapacity(t *testing.T) {
	gate := admission.NewGate(3)

	assert.True(t, gate.TryAcquire())
	assert.True(t, gate.TryAcquire())
	assert.True(t, gate.TryAcquire())
	assert.False(t, gate.TryAcquire(), "fourth holder must be rejected")
	assert.Equal(t, 3, gate.InFlight())

	gate.Release()
	assert.True(t, gate.TryAcquire(), "slot freed by Release must be reusable")
	assert.False(t, gate.TryAcquire())
}

func TestGate_DefaultCapacity(t *testing.T) {
	gate := admission.NewGate(0)
	assert.Equal(t, admission.DefaultCapacity, gate.Capacity())
}

func TestGate_ConcurrentAcquire(t *testing.T) {
	gate := admission.NewGate(3)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	start := make(chan struct{})
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if gate.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 3, admitted)
	assert.Equal(t, 3, gate.InFlight())
}
