package sink

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

const (
	reportsChannel = "bindispatch:reports"
	latestKey      = "bindispatch:latest"
)

// RedisBroker implements ReportBroker over Redis Pub/Sub so that several API
// replicas can stream the reports of one simulator. The latest report is also
// kept under a plain key for late readers.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan domain.CycleReport]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis broker: parse url: %w", err)
	}
	return NewRedisBrokerWithClient(redis.NewClient(opt)), nil
}

func NewRedisBrokerWithClient(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb, subs: map[chan domain.CycleReport]*redis.PubSub{}}
}

func (b *RedisBroker) Publish(ctx context.Context, report domain.CycleReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis broker: marshal report: %w", err)
	}

	pipe := b.rdb.TxPipeline()
	pipe.Set(ctx, latestKey, data, 0)
	pipe.Publish(ctx, reportsChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis broker: publish: %w", err)
	}
	return nil
}

// Latest returns the last report published by any replica.
func (b *RedisBroker) Latest(ctx context.Context) (domain.CycleReport, bool, error) {
	data, err := b.rdb.Get(ctx, latestKey).Bytes()
	if err == redis.Nil {
		return domain.CycleReport{}, false, nil
	}
	if err != nil {
		return domain.CycleReport{}, false, fmt.Errorf("redis broker: get latest: %w", err)
	}

	var r domain.CycleReport
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.CycleReport{}, false, fmt.Errorf("redis broker: decode latest: %w", err)
	}
	return r, true, nil
}

func (b *RedisBroker) Subscribe() chan domain.CycleReport {
	ch := make(chan domain.CycleReport, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, reportsChannel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		log.Printf("redis broker: subscribe failed: %v", err)
	}

	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()

	msgs := ps.Channel()
	go func() {
		for msg := range msgs {
			var r domain.CycleReport
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				log.Printf("redis broker: decode report: %v", err)
				continue
			}

			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				select {
				case ch <- r:
				default:
				}
			}
			b.mu.Unlock()
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(ch chan domain.CycleReport) {
	b.mu.Lock()
	ps, ok := b.subs[ch]
	delete(b.subs, ch)
	if ok {
		close(ch)
	}
	b.mu.Unlock()

	if ok {
		_ = ps.Close()
	}
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
