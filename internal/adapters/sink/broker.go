package sink

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"sync"
)

// ReportBroker is a presentation sink that fans cycle reports out to live
// subscribers (websocket clients, dashboards).
type ReportBroker interface {
	Publish(ctx context.Context, report domain.CycleReport) error
	Subscribe() chan domain.CycleReport
	Unsubscribe(ch chan domain.CycleReport)
}

// Broker is the in-process ReportBroker.
// Slow subscribers drop reports instead of blocking the dispatch cycle.
type Broker struct {
	mu   sync.Mutex
	subs map[chan domain.CycleReport]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: map[chan domain.CycleReport]struct{}{}}
}

func (b *Broker) Subscribe() chan domain.CycleReport {
	ch := make(chan domain.CycleReport, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan domain.CycleReport) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

func (b *Broker) Publish(_ context.Context, report domain.CycleReport) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- report.Clone():
		default:
		}
	}
	return nil
}
