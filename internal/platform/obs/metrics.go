package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)

	Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bindispatch", Name: "cycles_total", Help: "Dispatch cycles evaluated, by resulting state."},
		[]string{"state"},
	)

	CriticalBins = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "bindispatch", Name: "critical_bins", Help: "Bins above the critical threshold in the latest cycle."},
	)

	// RoutingRequests counts routing outcomes: ok, failed, superseded.
	RoutingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bindispatch", Name: "routing_requests_total", Help: "Routing engine requests by outcome."},
		[]string{"outcome"},
	)

	RoutingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "bindispatch", Name: "routing_duration_seconds", Help: "Routing engine latency in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}},
	)

	SinkErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "bindispatch", Name: "sink_publish_errors_total", Help: "Reports the presentation sink failed to accept."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(Cycles)
		Registry.MustRegister(CriticalBins)
		Registry.MustRegister(RoutingRequests)
		Registry.MustRegister(RoutingDuration)
		Registry.MustRegister(SinkErrors)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
