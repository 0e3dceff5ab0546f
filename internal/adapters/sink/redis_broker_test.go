package sink

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newTestRedisBroker(t *testing.T) *RedisBroker {
	t.Helper()

	mr := miniredis.RunT(t)
	b := NewRedisBrokerWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestRedisBrokerPublishSubscribe(t *testing.T) {
	b := newTestRedisBroker(t)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	metrics := &domain.Metrics{DistanceKm: 10, ETAMinutes: 12, FuelCost: 80, CO2SavedKg: 2.1}
	report := domain.CycleReport{
		CycleID:      "c42",
		Notification: domain.Notification{State: domain.StateCritical, Text: "1 Critical Bins | Optimized Route Generated", CriticalCount: 1},
		Route:        domain.RouteView{Status: domain.RouteReady},
		Metrics:      metrics,
	}
	if err := b.Publish(context.Background(), report); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-ch:
		if got.CycleID != "c42" || got.Metrics == nil || *got.Metrics != *metrics {
			t.Fatalf("got %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for report")
	}

	latest, ok, err := b.Latest(context.Background())
	if err != nil || !ok {
		t.Fatalf("latest = ok:%v err:%v", ok, err)
	}
	if latest.CycleID != "c42" || latest.Route.Status != domain.RouteReady {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestRedisBrokerLatestEmpty(t *testing.T) {
	b := newTestRedisBroker(t)

	if _, ok, err := b.Latest(context.Background()); err != nil || ok {
		t.Fatalf("latest on empty redis = ok:%v err:%v, want miss", ok, err)
	}
}
