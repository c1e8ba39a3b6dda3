package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler triggers a batch sync on a fixed interval. Start is
// restart-safe: starting a running scheduler stops the previous timer
// first. Stop on an idle scheduler is a no-op. A failed run is logged and
// the schedule keeps going.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger
	run      func(context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler invoking run every interval.
func NewScheduler(interval time.Duration, logger *slog.Logger, run func(context.Context)) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{interval: interval, logger: logger, run: run}
}

// Start begins periodic triggering. ctx bounds the background task's
// lifetime in addition to Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.run(runCtx)
			}
		}
	}()

	s.logger.Info("auto-sync started", slog.Duration("interval", s.interval))
}

// Stop cancels the periodic trigger and waits for the background task to
// exit. An in-flight run is not interrupted beyond context cancellation.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopLocked() {
		s.logger.Info("auto-sync stopped")
	}
}

func (s *Scheduler) stopLocked() bool {
	if s.cancel == nil {
		return false
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	return true
}

// Running reports whether the background task is alive. It reads the task's
// done channel rather than the Stop bookkeeping, so a scheduler whose parent
// context was cancelled externally reports false without a Stop call.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
