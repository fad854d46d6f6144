package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	stocksyncapp "github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/domain/stocksync"
)

// ErrInvalidConfig indicates the scheduler configuration is invalid
var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

// PassRunner runs one reconciliation pass and exposes the run guard for
// trigger bookkeeping.
type PassRunner interface {
	RunPass(ctx context.Context) (*stocksyncapp.PassResult, error)
	Guard() *stocksync.RunGuard
}

// PassSchedulerConfig holds configuration for the interval scheduler
type PassSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is the wall-clock period between pass attempts
	Interval time.Duration
	// RunOnStart triggers the first pass immediately instead of waiting
	// one full interval
	RunOnStart bool
}

// DefaultPassSchedulerConfig returns default scheduler configuration
func DefaultPassSchedulerConfig() PassSchedulerConfig {
	return PassSchedulerConfig{
		Enabled:  true,
		Interval: time.Hour,
	}
}

// Validate validates the configuration
func (c *PassSchedulerConfig) Validate() error {
	if c.Enabled && c.Interval < time.Minute {
		return ErrInvalidConfig
	}
	return nil
}

// PassScheduler triggers reconciliation passes on a fixed interval. A tick
// that lands while a pass is still in flight is skipped by the run guard,
// never queued, so a slow pass cannot pile up successors behind it.
type PassScheduler struct {
	config PassSchedulerConfig
	runner PassRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPassScheduler creates a new interval scheduler
func NewPassScheduler(config PassSchedulerConfig, runner PassRunner, logger *zap.Logger) (*PassScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PassScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the scheduler loop. Disabled schedulers start as a no-op so
// callers need not special-case the config.
func (s *PassScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("Pass scheduler disabled, passes run on manual trigger only")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Pass scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight pass to
// finish or the given context to expire.
func (s *PassScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Pass scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler loop is active
func (s *PassScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *PassScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.runner.Guard().SetNextTrigger(time.Now().Add(s.config.Interval))

	if s.config.RunOnStart {
		s.trigger(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runner.Guard().SetNextTrigger(time.Now().Add(s.config.Interval))
			s.trigger(ctx)
		}
	}
}

func (s *PassScheduler) trigger(ctx context.Context) {
	result, err := s.runner.RunPass(ctx)
	switch {
	case err != nil:
		s.logger.Error("Scheduled reconciliation pass failed", zap.Error(err))
	case result.Skipped:
		s.logger.Info("Scheduled reconciliation pass skipped, previous pass still running")
	default:
		s.logger.Info("Scheduled reconciliation pass completed",
			zap.String("batch_id", result.BatchID.String()),
			zap.Int("total_checked", result.Stats.TotalChecked),
			zap.Int("failed", result.Stats.TotalFailed),
		)
	}
}
