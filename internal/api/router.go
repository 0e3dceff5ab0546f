package api

import (
	"bin-dispatch-service/internal/api/handlers"
	"bin-dispatch-service/internal/platform/obs"
	"bin-dispatch-service/internal/ports"
	"net/http"
)

// Deps are the collaborators the HTTP layer reads from. Handlers only see
// ports and narrow interfaces, never concrete adapters.
type Deps struct {
	Fleet   ports.FleetRepository
	Bins    handlers.BinSource
	Reports handlers.ReportSource
	Stream  handlers.ReportSubscriber
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	fleetHandler := &handlers.FleetHandler{Repo: deps.Fleet, Bins: deps.Bins}
	dispatchHandler := &handlers.DispatchHandler{Reports: deps.Reports}
	streamHandler := &handlers.StreamHandler{Reports: deps.Reports, Broker: deps.Stream}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/v1/areas", fleetHandler.ListAreas)
	mux.HandleFunc("/v1/bins", fleetHandler.ListBins)
	mux.HandleFunc("/v1/dispatch", dispatchHandler.Latest)
	mux.HandleFunc("/v1/stream", streamHandler.Stream)
	mux.Handle("/metrics", obs.Handler())

	return loggingMiddleware(mux)
}
