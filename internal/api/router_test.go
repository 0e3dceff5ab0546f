package api

import (
	"bin-dispatch-service/internal/adapters/sink"
	"bin-dispatch-service/internal/domain"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type stubRepo struct{}

func (stubRepo) ListAreas(context.Context) ([]domain.Area, error) {
	return []domain.Area{{Name: "Manikbandar"}}, nil
}

func (stubRepo) ListBins(context.Context) ([]domain.Bin, error) { return nil, nil }

type stubBins struct{}

func (stubBins) All() []domain.Bin { return []domain.Bin{{ID: "BIN-01", Level: 40}} }

type latestReport struct {
	mu     sync.Mutex
	report *domain.CycleReport
}

func (l *latestReport) Latest() (domain.CycleReport, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.report == nil {
		return domain.CycleReport{}, false
	}
	return *l.report, true
}

func newTestServer(t *testing.T, reports *latestReport, broker *sink.Broker) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(NewRouter(Deps{
		Fleet:   stubRepo{},
		Bins:    stubBins{},
		Reports: reports,
		Stream:  broker,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterRoutes(t *testing.T) {
	srv := newTestServer(t, &latestReport{}, sink.NewBroker())

	tests := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/v1/areas", http.StatusOK},
		{"/v1/bins", http.StatusOK},
		{"/v1/dispatch", http.StatusServiceUnavailable},
		{"/nope", http.StatusNotFound},
	}
	for _, tc := range tests {
		res, err := http.Get(srv.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.path, err)
		}
		res.Body.Close()
		if res.StatusCode != tc.status {
			t.Errorf("GET %s: got status %d, want %d", tc.path, res.StatusCode, tc.status)
		}
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	router := NewRouter(Deps{Fleet: stubRepo{}, Bins: stubBins{}, Reports: &latestReport{}, Stream: sink.NewBroker()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `http_requests_total{method="GET",path="/health",status="200"}`) {
		t.Fatalf("metrics output missing /health counter:\n%s", body)
	}
}

func TestStreamSendsLatestThenPublished(t *testing.T) {
	reports := &latestReport{report: &domain.CycleReport{CycleID: "first"}}
	broker := sink.NewBroker()
	srv := newTestServer(t, reports, broker)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var got domain.CycleReport
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if got.CycleID != "first" {
		t.Fatalf("got cycle %q, want first", got.CycleID)
	}

	// The handler subscribes before sending the latest report, so this
	// publish cannot be lost.
	if err := broker.Publish(context.Background(), domain.CycleReport{
		CycleID: "second",
		Route:   domain.RouteView{Status: domain.RoutePending},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read published: %v", err)
	}
	if got.CycleID != "second" || got.Route.Status != domain.RoutePending {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router := NewRouter(Deps{Fleet: stubRepo{}, Bins: stubBins{}, Reports: &latestReport{}, Stream: sink.NewBroker()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("got X-Request-ID %q, want abc-123", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated X-Request-ID")
	}
}
