package handlers

import (
	"bin-dispatch-service/internal/domain"
	"net/http"
)

type ReportSource interface {
	Latest() (domain.CycleReport, bool)
}

// DispatchHandler serves the most recent cycle report.
type DispatchHandler struct {
	Reports ReportSource
}

func (h *DispatchHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, ok := h.Reports.Latest()
	if !ok {
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusServiceUnavailable, "no dispatch cycle has run yet")
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}
