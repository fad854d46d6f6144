package stocksync

import (
	"sync"
	"time"
)

// RunGuard is the process-wide single-flight latch over reconciliation
// passes, plus the last/next trigger timestamps. It is the only
// cross-invocation mutable state the pipeline holds.
//
// The latch is local to one process. A multi-instance deployment needs an
// external lock; RunGuard does not coordinate across processes.
type RunGuard struct {
	mu          sync.Mutex
	running     bool
	lastStarted time.Time
	lastEnded   time.Time
	nextTrigger time.Time
}

// NewRunGuard creates a released guard.
func NewRunGuard() *RunGuard {
	return &RunGuard{}
}

// TryAcquire attempts to admit a pass. It returns false when a pass is
// already in progress; callers must treat that as a normal, expected
// outcome, not a fault.
func (g *RunGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false
	}
	g.running = true
	g.lastStarted = time.Now()
	return true
}

// Release ends the current pass. Callers must release on every exit path,
// including aborts, to avoid a stuck latch.
func (g *RunGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	g.lastEnded = time.Now()
}

// IsRunning reports whether a pass is currently admitted.
func (g *RunGuard) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// LastStartedAt returns when the most recent pass was admitted.
func (g *RunGuard) LastStartedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastStarted
}

// LastEndedAt returns when the most recent pass released the guard.
func (g *RunGuard) LastEndedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastEnded
}

// SetNextTrigger records when the scheduler will attempt the next pass.
func (g *RunGuard) SetNextTrigger(t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextTrigger = t
}

// NextTriggerAt returns the scheduler's next planned attempt.
func (g *RunGuard) NextTriggerAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextTrigger
}
