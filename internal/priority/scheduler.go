package priority

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler is the single owner of synchronization timing. Cycles run on a
// fixed interval and on explicit invalidation triggers; because one goroutine
// drives the loop, runs can never overlap. Triggers arriving while a cycle is
// in flight coalesce into at most one follow-up run.
type Scheduler struct {
	sync     CycleRunner
	interval time.Duration
	trigger  chan struct{}
	logger   *zap.Logger
}

func NewScheduler(sync CycleRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Scheduler{
		sync:     sync,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Trigger requests a cycle outside the regular interval. Never blocks; a
// pending trigger absorbs further ones.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drives cycles until ctx is cancelled. An initial cycle runs
// immediately so the badge is populated right after startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("priority scheduler stopping")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.trigger:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.sync.RunCycle(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("priority sync cycle failed", zap.Error(err))
	}
}
