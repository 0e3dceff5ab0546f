package services

import (
	"context"
	"errors"
	"log"
	"time"
)

// TickerFunc starts a tick source with the given period and returns its
// channel and a stop function.
type TickerFunc func(period time.Duration) (<-chan time.Time, func())

func RealTicker(period time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(period)
	return t.C, t.Stop
}

// Scheduler is a cancellable periodic task.
//
// The task runs once when Run starts and then once per tick, always on the
// calling goroutine, so runs never overlap. A run that outlasts the period
// delays the next one.
type Scheduler struct {
	Period time.Duration
	Task   func(ctx context.Context) error
	Ticker TickerFunc
}

func NewScheduler(period time.Duration, task func(ctx context.Context) error) *Scheduler {
	return &Scheduler{Period: period, Task: task, Ticker: RealTicker}
}

// Run blocks until ctx is cancelled and returns ctx.Err().
// Task errors are logged and do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Period <= 0 {
		return errors.New("scheduler: period must be positive")
	}
	if s.Task == nil {
		return errors.New("scheduler: task must be non-nil")
	}

	ticker := s.Ticker
	if ticker == nil {
		ticker = RealTicker
	}
	ch, stop := ticker(s.Period)
	defer stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.Task(ctx); err != nil {
		log.Printf("scheduler: task failed: %v", err)
	}
}
