package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	CycleIDKey   ctxKey = "cycle_id"
)

// WithCycleID tags ctx so timings logged under it carry the dispatch cycle id.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CycleIDKey, id)
}

func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	cycleID, _ := ctx.Value(CycleIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s cycle_id=%s op=%s dur=%dms err=%v", reqID, cycleID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s cycle_id=%s op=%s dur=%dms", reqID, cycleID, name, dur.Milliseconds())
	}
}
