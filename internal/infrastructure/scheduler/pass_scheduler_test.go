package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	stocksyncapp "github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/domain/stocksync"
)

type stubRunner struct {
	mu      sync.Mutex
	guard   *stocksync.RunGuard
	calls   int
	result  *stocksyncapp.PassResult
	err     error
	blockCh chan struct{}
}

func newStubRunner() *stubRunner {
	return &stubRunner{
		guard:  stocksync.NewRunGuard(),
		result: &stocksyncapp.PassResult{Success: true},
	}
}

func (r *stubRunner) RunPass(ctx context.Context) (*stocksyncapp.PassResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.blockCh != nil {
		<-r.blockCh
	}
	return r.result, r.err
}

func (r *stubRunner) Guard() *stocksync.RunGuard {
	return r.guard
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestPassSchedulerConfig_Validate(t *testing.T) {
	cfg := DefaultPassSchedulerConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Interval = time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestPassScheduler_RunOnStart(t *testing.T) {
	runner := newStubRunner()
	scheduler, err := NewPassScheduler(PassSchedulerConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunOnStart: true,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return runner.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.False(t, runner.Guard().NextTriggerAt().IsZero())
}

func TestPassScheduler_DisabledDoesNothing(t *testing.T) {
	runner := newStubRunner()
	scheduler, err := NewPassScheduler(PassSchedulerConfig{
		Enabled:    false,
		RunOnStart: true,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Stop(context.Background()))

	assert.Zero(t, runner.callCount())
}

func TestPassScheduler_StartTwiceIsIdempotent(t *testing.T) {
	runner := newStubRunner()
	scheduler, err := NewPassScheduler(DefaultPassSchedulerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestPassScheduler_StopWaitsForLoop(t *testing.T) {
	runner := newStubRunner()
	scheduler, err := NewPassScheduler(PassSchedulerConfig{
		Enabled:  true,
		Interval: time.Hour,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, scheduler.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, scheduler.Stop(ctx))
}

func TestPassScheduler_SkippedResultIsNotAnError(t *testing.T) {
	runner := newStubRunner()
	runner.result = &stocksyncapp.PassResult{Skipped: true, Error: stocksync.ErrAlreadyRunning.Error()}

	scheduler, err := NewPassScheduler(PassSchedulerConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunOnStart: true,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return runner.callCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPassScheduler_InvalidConfigRejected(t *testing.T) {
	_, err := NewPassScheduler(PassSchedulerConfig{
		Enabled:  true,
		Interval: time.Second,
	}, newStubRunner(), zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
