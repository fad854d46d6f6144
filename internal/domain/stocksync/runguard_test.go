package stocksync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunGuard_SingleFlight(t *testing.T) {
	guard := NewRunGuard()

	assert.True(t, guard.TryAcquire())
	assert.False(t, guard.TryAcquire(), "second acquire while running must be rejected")
	assert.True(t, guard.IsRunning())

	guard.Release()
	assert.False(t, guard.IsRunning())
	assert.True(t, guard.TryAcquire())
	guard.Release()
}

func TestRunGuard_ConcurrentAcquireAdmitsExactlyOne(t *testing.T) {
	guard := NewRunGuard()

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
}

func TestRunGuard_Timestamps(t *testing.T) {
	guard := NewRunGuard()
	assert.True(t, guard.LastStartedAt().IsZero())

	assert.True(t, guard.TryAcquire())
	started := guard.LastStartedAt()
	assert.False(t, started.IsZero())

	guard.Release()
	assert.False(t, guard.LastEndedAt().Before(started))

	next := time.Now().Add(time.Minute)
	guard.SetNextTrigger(next)
	assert.Equal(t, next, guard.NextTriggerAt())
}
