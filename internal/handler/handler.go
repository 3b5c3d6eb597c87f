// Package handler implements the HTTP handlers for the Cargoflow API.
// Handlers decode and validate input, call into the record store, and map
// its errors onto HTTP status codes. No business logic lives here.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mpetrenko/cargoflow/internal/filestore"
	"github.com/mpetrenko/cargoflow/internal/middleware"
	"github.com/mpetrenko/cargoflow/internal/store"
)

// maxUploadBytes bounds document uploads and all other request bodies.
const maxUploadBytes = 20 << 20

// Handler holds the API route handlers and their dependencies.
type Handler struct {
	store *store.RecordStore
	files filestore.Provider
	log   *slog.Logger
}

// NewHandler creates a Handler over the record store and document file storage.
func NewHandler(s *store.RecordStore, files filestore.Provider, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: s, files: files, log: log}
}

// NewRouter wires the full middleware stack and route table.
// Middleware order: RequestID → RealIP → request logging → Recoverer → CORS.
func NewRouter(h *Handler, logger *slog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(corsOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewMaxBodySizeHandler(maxUploadBytes))

		r.Post("/refresh", h.Refresh)
		r.Get("/stats", h.Stats)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.ListTrips)
			r.Post("/", h.CreateTrip)
			r.Get("/filtered", h.ListFilteredTrips)
			r.Put("/filters", h.SetTripFilters)
			r.Delete("/filters", h.ClearTripFilters)
			r.Get("/{id}", h.GetTrip)
			r.Put("/{id}", h.UpdateTrip)
			r.Delete("/{id}", h.DeleteTrip)
			r.Get("/{id}/history", h.ListTripHistory)
			r.Get("/{id}/documents", h.ListDocuments)
			r.Post("/{id}/documents", h.UploadDocument)
		})

		r.Delete("/documents/{id}", h.DeleteDocument)
	})

	return r
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Refresh handles POST /api/refresh: a full reload of the cached collections.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		h.log.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not load data from the record store"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"clients": len(h.store.Clients()),
		"trips":   len(h.store.Trips()),
	})
}
