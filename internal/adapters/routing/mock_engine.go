package routing

import (
	"bin-dispatch-service/internal/domain"
	"context"
	"sync"
)

// MockEngine returns a fixed summary (or error) and records the requests it saw.
type MockEngine struct {
	Summary domain.RouteSummary
	Err     error

	mu       sync.Mutex
	requests []domain.RouteRequest
}

func NewMockEngine(summary domain.RouteSummary) *MockEngine {
	return &MockEngine{Summary: summary}
}

func (m *MockEngine) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteSummary, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.RouteSummary{}, err
	}
	if m.Err != nil {
		return domain.RouteSummary{}, m.Err
	}
	return m.Summary, nil
}

func (m *MockEngine) Requests() []domain.RouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.RouteRequest(nil), m.requests...)
}
