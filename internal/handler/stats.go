package handler

import (
	"net/http"
	"time"

	"github.com/mpetrenko/cargoflow/internal/stats"
)

// statsResponse is the GET /api/stats payload.
type statsResponse struct {
	Period  stats.Period    `json:"period"`
	Summary stats.Summary   `json:"summary"`
	ByDate  []stats.DateRow `json:"by_date"`
}

// Stats handles GET /api/stats?period=week|month|year (default month).
// Computed from the in-memory trip cache; no remote round-trip.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	period, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("unknown period"))
		return
	}

	trips := stats.FilterPeriod(h.store.Trips(), period, time.Now().UTC())
	writeJSON(w, http.StatusOK, statsResponse{
		Period:  period,
		Summary: stats.Summarize(trips),
		ByDate:  stats.GroupByDate(trips),
	})
}
