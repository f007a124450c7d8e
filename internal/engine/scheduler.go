package engine

import (
	"context"
	"papertrader/types"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler advances a price feed on every tick it receives and fans the
// resulting PriceTick out to its listeners. What produces ticks is up to
// the caller: a wall-clock ticker in the server, a plain loop in simulations.
type Scheduler struct {
	feed priceSource
	log  *zap.Logger

	mu        sync.RWMutex
	listeners []TickListener
}

func NewScheduler(feed priceSource, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{feed: feed, log: log}
}

func (s *Scheduler) Subscribe(l TickListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Step advances the feed once and notifies listeners in subscription order.
func (s *Scheduler) Step() types.PriceTick {
	tick := s.feed.Advance()

	s.mu.RLock()
	listeners := make([]TickListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.OnTick(tick)
	}
	return tick
}

// Run steps once per value received on ticks until ctx is done or ticks is closed.
func (s *Scheduler) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped", zap.Error(ctx.Err()))
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			tick := s.Step()
			s.log.Debug("prices advanced", zap.Int64("seq", tick.Seq))
		}
	}
}

// Start runs the scheduler on a wall-clock ticker in its own goroutine.
// The returned channel is closed once the loop has exited.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		s.Run(ctx, ticker.C)
	}()
	s.log.Info("price scheduler started", zap.Duration("interval", interval))
	return done
}
