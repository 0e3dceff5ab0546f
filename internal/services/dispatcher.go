package services

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/obs"
	"bin-dispatch-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type DispatcherConfig struct {
	Depot        domain.Coordinates
	Threshold    int
	RouteTimeout time.Duration
	// PublishTimeout bounds each sink publish.
	PublishTimeout time.Duration
}

// routeTask is the single in-flight routing request of a cycle.
type routeTask struct {
	cycleID    string
	cancel     context.CancelFunc
	done       chan struct{}
	superseded bool
}

// Dispatcher runs dispatch cycles: telemetry step, selection, route request,
// metrics derivation, and publication to the presentation sink.
//
// At most one route request is in flight. A new cycle cancels it and waits for
// it to settle before touching the registry, so a stale summary can never
// overwrite a newer report.
type Dispatcher struct {
	registry  *Registry
	simulator *Simulator
	engine    ports.RoutingEngine
	sink      ports.PresentationSink
	cfg       DispatcherConfig

	now   func() time.Time
	newID func() string

	mu          sync.Mutex
	inflight    *routeTask
	latest      *domain.CycleReport
	routeActive bool
}

func NewDispatcher(
	registry *Registry,
	simulator *Simulator,
	engine ports.RoutingEngine,
	sink ports.PresentationSink,
	cfg DispatcherConfig,
) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("new dispatcher: registry must be non-nil")
	}
	if engine == nil {
		return nil, errors.New("new dispatcher: routing engine must be non-nil")
	}
	if sink == nil {
		return nil, errors.New("new dispatcher: presentation sink must be non-nil")
	}
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}

	return &Dispatcher{
		registry:  registry,
		simulator: simulator,
		engine:    engine,
		sink:      sink,
		cfg:       cfg,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}, nil
}

// Tick runs one full dispatch cycle.
func (d *Dispatcher) Tick(ctx context.Context) error {
	d.cancelInflight()

	if d.simulator != nil {
		if err := d.simulator.Step(); err != nil {
			return fmt.Errorf("dispatch tick: %w", err)
		}
	}

	return d.Evaluate(ctx)
}

// Evaluate selects critical bins from the current registry state and publishes
// the resulting report. When bins are critical a route request is started in
// the background under ctx; its outcome is published as a second report for
// the same cycle.
func (d *Dispatcher) Evaluate(ctx context.Context) error {
	d.cancelInflight()

	bins := d.registry.All()
	critical := SelectCritical(bins, d.cfg.Threshold)
	report := d.newReport(bins, critical)

	obs.Cycles.WithLabelValues(string(report.Notification.State)).Inc()
	obs.CriticalBins.Set(float64(len(critical)))
	log.Printf("cycle_id=%s state=%s critical=%d", report.CycleID, report.Notification.State, len(critical))

	if len(critical) == 0 {
		d.mu.Lock()
		if d.routeActive {
			report.Route.Status = domain.RouteRetracted
			d.routeActive = false
		}
		d.latest = &report
		d.mu.Unlock()

		d.publish(report)
		return nil
	}

	req, err := BuildRouteRequest(d.cfg.Depot, critical)
	if err != nil {
		return fmt.Errorf("evaluate dispatch: %w", err)
	}
	report.Route = domain.RouteView{Status: domain.RoutePending, Waypoints: req.Waypoints}

	routeCtx, cancel := context.WithTimeout(obs.WithCycleID(ctx, report.CycleID), d.cfg.RouteTimeout)
	task := &routeTask{
		cycleID: report.CycleID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	d.mu.Lock()
	d.inflight = task
	d.routeActive = true
	d.latest = &report
	d.mu.Unlock()

	d.publish(report)

	go d.runRoute(routeCtx, task, req, report.Clone())
	return nil
}

func (d *Dispatcher) runRoute(ctx context.Context, task *routeTask, req domain.RouteRequest, report domain.CycleReport) {
	defer close(task.done)
	defer task.cancel()

	start := time.Now()
	summary, err := d.engine.Route(ctx, req)
	obs.RoutingDuration.Observe(time.Since(start).Seconds())

	d.mu.Lock()
	if task.superseded {
		d.mu.Unlock()
		obs.RoutingRequests.WithLabelValues("superseded").Inc()
		log.Printf("cycle_id=%s route superseded", task.cycleID)
		return
	}

	// A routing failure degrades the cycle, it never fails it.
	if err != nil {
		obs.RoutingRequests.WithLabelValues("failed").Inc()
		log.Printf("cycle_id=%s route request failed: %v", task.cycleID, err)
		report.Route.Status = domain.RouteFailed
		report.Metrics = nil
	} else {
		obs.RoutingRequests.WithLabelValues("ok").Inc()
		m := DeriveMetrics(summary)
		report.Route.Status = domain.RouteReady
		report.Metrics = &m
	}
	report.GeneratedAt = d.now()
	d.latest = &report
	d.mu.Unlock()

	d.publish(report)
}

// cancelInflight cancels the pending route request, if any, and waits for it
// to settle.
func (d *Dispatcher) cancelInflight() {
	d.mu.Lock()
	task := d.inflight
	d.inflight = nil
	if task != nil {
		task.superseded = true
	}
	d.mu.Unlock()

	if task == nil {
		return
	}
	task.cancel()
	<-task.done
}

// Await blocks until the in-flight route request, if any, has settled.
func (d *Dispatcher) Await() {
	d.mu.Lock()
	task := d.inflight
	d.mu.Unlock()

	if task != nil {
		<-task.done
	}
}

// Stop cancels any in-flight route request.
func (d *Dispatcher) Stop() {
	d.cancelInflight()
}

// Latest returns the most recently published report.
func (d *Dispatcher) Latest() (domain.CycleReport, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.latest == nil {
		return domain.CycleReport{}, false
	}
	return d.latest.Clone(), true
}

func (d *Dispatcher) newReport(bins []domain.Bin, critical []domain.Bin) domain.CycleReport {
	views := make([]domain.BinView, 0, len(bins))
	for _, b := range bins {
		views = append(views, domain.BinView{
			ID:       b.ID,
			Area:     b.Area,
			Lat:      b.Location.Lat,
			Lng:      b.Location.Lng,
			Level:    b.Level,
			Priority: b.Priority,
			Health:   b.Health,
			Band:     domain.BandFor(b.Level),
		})
	}

	var chart []domain.ChartPoint
	if len(critical) > 0 {
		chart = make([]domain.ChartPoint, 0, len(critical))
		for _, b := range critical {
			chart = append(chart, domain.ChartPoint{Area: b.Area, Level: b.Level})
		}
	}

	return domain.CycleReport{
		CycleID:      d.newID(),
		GeneratedAt:  d.now(),
		Bins:         views,
		Notification: Notify(critical),
		Route:        domain.RouteView{Status: domain.RouteNone},
		Chart:        chart,
	}
}

func (d *Dispatcher) publish(report domain.CycleReport) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PublishTimeout)
	defer cancel()

	if err := d.sink.Publish(ctx, report); err != nil {
		obs.SinkErrors.Inc()
		log.Printf("cycle_id=%s publish report failed: %v", report.CycleID, err)
	}
}
