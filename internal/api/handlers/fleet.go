package handlers

import (
	"bin-dispatch-service/internal/api/dto"
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/ports"
	"log"
	"net/http"
)

// BinSource exposes the live bin state (levels change every cycle).
type BinSource interface {
	All() []domain.Bin
}

// FleetHandler serves the static areas and the live bin registry.
type FleetHandler struct {
	Repo ports.FleetRepository
	Bins BinSource
}

func (h *FleetHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	areas, err := h.Repo.ListAreas(r.Context())
	if err != nil {
		log.Printf("list areas failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAreasResponse{Areas: make([]dto.AreaResponse, 0, len(areas))}
	for _, a := range areas {
		res.Areas = append(res.Areas, dto.AreaResponse{
			Name: a.Name,
			Lat:  a.Location.Lat,
			Lng:  a.Location.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) ListBins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bins := h.Bins.All()
	res := dto.ListBinsResponse{Bins: make([]dto.BinResponse, 0, len(bins))}
	for _, b := range bins {
		res.Bins = append(res.Bins, dto.BinResponse{
			ID:       b.ID,
			Area:     b.Area,
			Lat:      b.Location.Lat,
			Lng:      b.Location.Lng,
			Level:    b.Level,
			Priority: b.Priority,
			Health:   string(b.Health),
			Band:     string(domain.BandFor(b.Level)),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
