package services

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"sync"
)

func testAreas() []domain.Area {
	return []domain.Area{
		{Name: "Manikbandar", Location: domain.Coordinates{Lat: 18.6736, Lng: 78.0941}},
		{Name: "Kanteshwar", Location: domain.Coordinates{Lat: 18.6710, Lng: 78.1025}},
		{Name: "Bus Stand", Location: domain.Coordinates{Lat: 18.6722, Lng: 78.0958}},
	}
}

func testBin(id, area string, level, priority int) domain.Bin {
	return domain.Bin{
		ID:       id,
		Area:     area,
		Location: domain.Coordinates{Lat: 18.67 + float64(level)/10000, Lng: 78.09},
		Level:    level,
		Priority: priority,
		Health:   domain.HealthOK,
	}
}

func mustRegistry(t interface{ Fatalf(string, ...any) }, bins ...domain.Bin) *Registry {
	r, err := NewRegistry(testAreas(), bins)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return r
}

type engineFunc func(ctx context.Context, req domain.RouteRequest) (domain.RouteSummary, error)

func (f engineFunc) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteSummary, error) {
	return f(ctx, req)
}

type recordingSink struct {
	mu      sync.Mutex
	reports []domain.CycleReport
}

func (s *recordingSink) Publish(_ context.Context, r domain.CycleReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r.Clone())
	return nil
}

func (s *recordingSink) all() []domain.CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CycleReport(nil), s.reports...)
}
