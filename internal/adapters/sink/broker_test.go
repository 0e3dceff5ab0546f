package sink

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	report := domain.CycleReport{
		CycleID:      "c1",
		Notification: domain.Notification{State: domain.StateCritical, CriticalCount: 1},
		Bins:         []domain.BinView{{ID: "BIN-01", Level: 90}},
	}
	if err := b.Publish(context.Background(), report); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-ch:
		if got.CycleID != "c1" || got.Notification.State != domain.StateCritical {
			t.Fatalf("got %+v", got)
		}
		got.Bins[0].Level = 1
		if report.Bins[0].Level != 90 {
			t.Fatal("subscriber shares bin slice with publisher")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for report")
	}

	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// A second unsubscribe must not panic on a closed channel.
	b.Unsubscribe(ch)
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = b.Publish(context.Background(), domain.CycleReport{CycleID: "c"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
