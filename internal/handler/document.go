package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// ListDocuments handles GET /api/trips/{id}/documents.
// Documents are never cached; every call round-trips to the remote store.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.Documents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// UploadDocument handles POST /api/trips/{id}/documents.
// Multipart form fields: "file" (required), "type" (document type, defaults
// to "other"), "notes". The file goes to the storage provider first; only
// after a successful upload is the metadata record persisted with the
// provider's URI.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	if _, err := h.store.GetTrip(r.Context(), tripID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("trip not found"))
			return
		}
		h.log.Error("upload document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	docType := domain.DocumentType(r.FormValue("type"))
	if docType == "" {
		docType = domain.DocOther
	}
	if !docType.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("unknown document type"))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("could not read uploaded file"))
		return
	}

	// A random prefix keeps same-named uploads from overwriting each other.
	name := path.Base(header.Filename)
	storagePath := path.Join("trips", tripID, uuid.NewString()+"-"+name)

	uri, err := h.files.Upload(r.Context(), storagePath, content)
	if err != nil {
		h.log.Error("document upload failed", slog.String("path", storagePath), slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not store file"))
		return
	}

	created, err := h.store.AddDocument(r.Context(), domain.Document{
		TripID:     tripID,
		Name:       name,
		Type:       docType,
		URI:        uri,
		UploadDate: time.Now().UTC(),
		Notes:      r.FormValue("notes"),
	})
	if err != nil {
		h.log.Error("document record create failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not add document"))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteDocument handles DELETE /api/documents/{id}.
// Only the metadata record is removed; the stored file stays behind its
// opaque URI and is the storage collaborator's concern.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.log.Error("delete document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("could not delete document"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
