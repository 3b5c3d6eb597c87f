package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// ListClients handles GET /api/clients.
// Served from the in-memory cache; call POST /api/refresh to repull.
func (h *Handler) ListClients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Clients())
}

// GetClient handles GET /api/clients/{id}.
// Always fetches from the remote store, bypassing the cache.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("client not found"))
			return
		}
		h.log.Error("get client failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	created, err := h.store.AddClient(r.Context(), req.toDomain())
	if err != nil {
		h.log.Error("create client failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not add client"))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateClient handles PUT /api/clients/{id}.
// The body is a full replacement record; the path ID wins over any body ID.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	updated, err := h.store.UpdateClient(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("client not found"))
			return
		}
		h.log.Error("update client failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not update client"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteClient handles DELETE /api/clients/{id}.
// Deleting a client never touches its trips; they keep the dangling ID.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("client not found"))
			return
		}
		h.log.Error("delete client failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not delete client"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
