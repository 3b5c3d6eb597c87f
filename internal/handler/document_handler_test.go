package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// multipartBody builds a multipart form with one file field plus extra values.
func multipartBody(t *testing.T, filename string, content []byte, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)

	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

// ---- GET /api/trips/{id}/documents ------------------------------------------

func TestListDocuments_200_FiltersByTrip(t *testing.T) {
	deps := &testDeps{documents: &mockDocumentRepo{
		getAll: func(context.Context) ([]domain.Document, error) {
			return []domain.Document{
				{ID: "d1", TripID: "t1", Name: "invoice.pdf"},
				{ID: "d2", TripID: "t2", Name: "waybill.pdf"},
			}, nil
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodGet, "/api/trips/t1/documents", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Document
	decodeBody(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)
}

// ---- POST /api/trips/{id}/documents -----------------------------------------

func TestUploadDocument_201(t *testing.T) {
	var created domain.Document
	deps := &testDeps{
		trips: &mockTripRepo{
			getByID: func(_ context.Context, id string) (domain.Trip, error) {
				require.Equal(t, "t1", id)
				return tripFixture(), nil
			},
		},
		documents: &mockDocumentRepo{
			create: func(_ context.Context, d domain.Document) (domain.Document, error) {
				created = d
				d.ID = "d1"
				return d, nil
			},
		},
	}
	h := newTestRouter(t, deps)

	body, contentType := multipartBody(t, "invoice.pdf", []byte("%PDF-1.4"), map[string]string{
		"type":  "invoice",
		"notes": "signed copy",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	// The file lands in storage under the trip's directory with a unique name.
	require.Len(t, deps.files.uploads, 1)
	for path, content := range deps.files.uploads {
		assert.True(t, strings.HasPrefix(path, "trips/t1/"), "path %q", path)
		assert.True(t, strings.HasSuffix(path, "-invoice.pdf"), "path %q", path)
		assert.Equal(t, []byte("%PDF-1.4"), content)
	}

	// The record carries the provider's URI and the form metadata.
	assert.Equal(t, "t1", created.TripID)
	assert.Equal(t, "invoice.pdf", created.Name)
	assert.Equal(t, domain.DocInvoice, created.Type)
	assert.True(t, strings.HasPrefix(created.URI, "mock://trips/t1/"), "uri %q", created.URI)
	assert.Equal(t, "signed copy", created.Notes)
	assert.False(t, created.UploadDate.IsZero())
}

func TestUploadDocument_201_DefaultsTypeToOther(t *testing.T) {
	var created domain.Document
	deps := &testDeps{
		trips: &mockTripRepo{
			getByID: func(context.Context, string) (domain.Trip, error) { return tripFixture(), nil },
		},
		documents: &mockDocumentRepo{
			create: func(_ context.Context, d domain.Document) (domain.Document, error) {
				created = d
				return d, nil
			},
		},
	}
	h := newTestRouter(t, deps)

	body, contentType := multipartBody(t, "photo.jpg", []byte{0xFF, 0xD8}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.DocOther, created.Type)
}

func TestUploadDocument_400_MissingFile(t *testing.T) {
	deps := &testDeps{trips: &mockTripRepo{
		getByID: func(context.Context, string) (domain.Trip, error) { return tripFixture(), nil },
	}}
	h := newTestRouter(t, deps)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("type", "invoice"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadDocument_404_TripNotFound(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	body, contentType := multipartBody(t, "invoice.pdf", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/trips/missing/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadDocument_422_UnknownType(t *testing.T) {
	deps := &testDeps{trips: &mockTripRepo{
		getByID: func(context.Context, string) (domain.Trip, error) { return tripFixture(), nil },
	}}
	h := newTestRouter(t, deps)

	body, contentType := multipartBody(t, "invoice.pdf", []byte("x"), map[string]string{
		"type": "receipt",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- DELETE /api/documents/{id} ---------------------------------------------

func TestDeleteDocument_204(t *testing.T) {
	var deleted string
	deps := &testDeps{documents: &mockDocumentRepo{
		delete: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodDelete, "/api/documents/d1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "d1", deleted)
}
