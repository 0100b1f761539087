package vehicle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers Service.Sync at a fixed interval.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(service *Service, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{service: service, interval: interval, logger: logger}
}

// Start begins ticking. A running scheduler is restarted.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	s.logger.Info("Sync scheduler started", zap.Duration("interval", s.interval))
}

// Stop stops ticking and waits for a sync in progress to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sum, err := s.service.Sync(ctx)
			if err != nil {
				s.logger.Error("Scheduled sync failed", zap.Error(err))
				continue
			}
			s.logger.Info("Scheduled sync finished", zap.String("run_id", sum.RunID), zap.String("message", sum.Message))
		}
	}
}
