package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerRunsImmediatelyThenPerTick(t *testing.T) {
	ticks := make(chan time.Time)
	stopped := make(chan struct{})
	runs := make(chan int, 8)

	count := 0
	s := &Scheduler{
		Period: 5 * time.Second,
		Task: func(ctx context.Context) error {
			count++
			runs <- count
			return nil
		},
		Ticker: func(time.Duration) (<-chan time.Time, func()) {
			return ticks, func() { close(stopped) }
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	if got := <-runs; got != 1 {
		t.Fatalf("first run = %d, want 1", got)
	}
	for want := 2; want <= 4; want++ {
		ticks <- time.Now()
		if got := <-runs; got != want {
			t.Fatalf("run = %d, want %d", got, want)
		}
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	<-stopped
}

func TestSchedulerContinuesAfterTaskError(t *testing.T) {
	ticks := make(chan time.Time)
	runs := make(chan struct{}, 4)

	s := &Scheduler{
		Period: time.Second,
		Task: func(ctx context.Context) error {
			runs <- struct{}{}
			return errors.New("boom")
		},
		Ticker: func(time.Duration) (<-chan time.Time, func()) { return ticks, func() {} },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	<-runs
	ticks <- time.Now()
	<-runs
}

func TestSchedulerRejectsInvalidPeriod(t *testing.T) {
	s := NewScheduler(0, func(context.Context) error { return nil })
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error for zero period")
	}
}
