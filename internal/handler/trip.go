package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// ListTrips handles GET /api/trips: the full cached trip list.
func (h *Handler) ListTrips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Trips())
}

// ListFilteredTrips handles GET /api/trips/filtered: the current filtered view.
// Equal to the full list until PUT /api/trips/filters narrows it.
func (h *Handler) ListFilteredTrips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.FilteredTrips())
}

// SetTripFilters handles PUT /api/trips/filters.
// Recomputes the filtered view in memory; no remote round-trip.
func (h *Handler) SetTripFilters(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	h.store.FilterTrips(req.toDomain())
	writeJSON(w, http.StatusOK, h.store.FilteredTrips())
}

// ClearTripFilters handles DELETE /api/trips/filters.
func (h *Handler) ClearTripFilters(w http.ResponseWriter, _ *http.Request) {
	h.store.ClearFilters()
	writeJSON(w, http.StatusOK, h.store.FilteredTrips())
}

// GetTrip handles GET /api/trips/{id}.
// Always fetches from the remote store, bypassing the cache.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("trip not found"))
			return
		}
		h.log.Error("get trip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTrip handles POST /api/trips.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	created, err := h.store.AddTrip(r.Context(), req.toDomain())
	if err != nil {
		h.log.Error("create trip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not add trip"))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTrip handles PUT /api/trips/{id}.
// The current remote record is fetched first and passed to the store as the
// previous version, so the audit diff is computed against what was actually
// persisted, not against whatever the caller last saw.
func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	id := chi.URLParam(r, "id")
	previous, err := h.store.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("trip not found"))
			return
		}
		h.log.Error("update trip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}

	updated, err := h.store.UpdateTrip(r.Context(), id, req.toDomain(), previous)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("trip not found"))
			return
		}
		h.log.Error("update trip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not update trip"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/trips/{id}.
// History records and documents are cleaned up best-effort after the trip
// itself is gone; their failures never surface here.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTrip(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("trip not found"))
			return
		}
		h.log.Error("delete trip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not delete trip"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTripHistory handles GET /api/trips/{id}/history.
func (h *Handler) ListTripHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.TripHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Error("list trip history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, records)
}
