package handlers

import (
	"bin-dispatch-service/internal/api/dto"
	"bin-dispatch-service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeRepo struct {
	areas []domain.Area
	err   error
}

func (f *fakeRepo) ListAreas(context.Context) ([]domain.Area, error) { return f.areas, f.err }
func (f *fakeRepo) ListBins(context.Context) ([]domain.Bin, error)   { return nil, f.err }

type fakeBins []domain.Bin

func (f fakeBins) All() []domain.Bin { return f }

type fakeReports struct {
	report *domain.CycleReport
}

func (f *fakeReports) Latest() (domain.CycleReport, bool) {
	if f.report == nil {
		return domain.CycleReport{}, false
	}
	return *f.report, true
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("got Allow %q", rec.Header().Get("Allow"))
	}
}

func TestListAreas(t *testing.T) {
	h := &FleetHandler{Repo: &fakeRepo{areas: []domain.Area{
		{Name: "Bus Stand", Location: domain.Coordinates{Lat: 18.6722, Lng: 78.0958}},
	}}}

	rec := httptest.NewRecorder()
	h.ListAreas(rec, httptest.NewRequest(http.MethodGet, "/v1/areas", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var res dto.ListAreasResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Areas) != 1 || res.Areas[0].Name != "Bus Stand" || res.Areas[0].Lng != 78.0958 {
		t.Fatalf("got %+v", res.Areas)
	}
}

func TestListAreasRepoError(t *testing.T) {
	h := &FleetHandler{Repo: &fakeRepo{err: errors.New("db down")}}

	rec := httptest.NewRecorder()
	h.ListAreas(rec, httptest.NewRequest(http.MethodGet, "/v1/areas", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}
}

func TestListBins(t *testing.T) {
	h := &FleetHandler{Bins: fakeBins{
		{ID: "BIN-01", Area: "Bus Stand", Level: 85, Priority: 5, Health: domain.HealthOK},
		{ID: "BIN-04", Area: "Kanteshwar", Level: 65, Priority: 2, Health: domain.HealthLowBattery},
	}}

	rec := httptest.NewRecorder()
	h.ListBins(rec, httptest.NewRequest(http.MethodGet, "/v1/bins", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var res dto.ListBinsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Bins) != 2 {
		t.Fatalf("got %d bins, want 2", len(res.Bins))
	}
	if res.Bins[0].Band != string(domain.BandRed) || res.Bins[1].Band != string(domain.BandOrange) {
		t.Fatalf("got bands %q, %q", res.Bins[0].Band, res.Bins[1].Band)
	}
	if res.Bins[1].Health != string(domain.HealthLowBattery) {
		t.Fatalf("got health %q", res.Bins[1].Health)
	}
}

func TestDispatchLatest(t *testing.T) {
	reports := &fakeReports{}
	h := &DispatchHandler{Reports: reports}

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/v1/dispatch", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got status %d before first cycle, want 503", rec.Code)
	}

	reports.report = &domain.CycleReport{
		CycleID:      "c1",
		Notification: domain.Notification{State: domain.StateNominal, Text: "All bins under control"},
		Route:        domain.RouteView{Status: domain.RouteNone},
	}

	rec = httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/v1/dispatch", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var got domain.CycleReport
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CycleID != "c1" || got.Notification.State != domain.StateNominal || got.Metrics != nil {
		t.Fatalf("got %+v", got)
	}
}
