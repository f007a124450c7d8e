package engine

import (
	"context"
	"papertrader/types"
	"sync"
	"testing"
	"time"
)

func TestSchedulerRunAdvancesPerTick(t *testing.T) {
	feed := NewPriceFeed(NewFeedConfig(testAssets(), DefaultMaxMove, DefaultFloor), NewRandSource(7))
	sched := NewScheduler(feed, nil)

	var mu sync.Mutex
	var seen []int64
	sched.Subscribe(TickListenerFunc(func(tick types.PriceTick) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, tick.Seq)
	}))

	ticks := make(chan time.Time)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(context.Background(), ticks)
	}()

	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}
	close(ticks)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("listener saw sequences %v, want [1 2 3]", seen)
	}
	if feed.Tick().Seq != 3 {
		t.Fatalf("feed sequence %d, want 3", feed.Tick().Seq)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	feed := NewPriceFeed(NewFeedConfig(testAssets(), DefaultMaxMove, DefaultFloor), NewRandSource(7))
	sched := NewScheduler(feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := sched.Start(ctx, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestSchedulerListenersInOrder(t *testing.T) {
	feed := NewPriceFeed(NewFeedConfig(testAssets(), DefaultMaxMove, DefaultFloor), NewRandSource(1))
	sched := NewScheduler(feed, nil)

	var order []string
	sched.Subscribe(TickListenerFunc(func(types.PriceTick) { order = append(order, "first") }))
	sched.Subscribe(TickListenerFunc(func(types.PriceTick) { order = append(order, "second") }))

	tick := sched.Step()
	if tick.Seq != 1 {
		t.Fatalf("sequence %d, want 1", tick.Seq)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("listener order %v", order)
	}
}
