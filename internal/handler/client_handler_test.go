package handler_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

func clientFixture() domain.Client {
	return domain.Client{
		ID:            "c1",
		Name:          "TransLogistics LLC",
		TaxID:         "7701234567",
		ContactPerson: "Ivan Sidorov",
		Phone:         "+7 900 123-45-67",
		Email:         "office@translogistics.example",
	}
}

// ---- GET /api/clients -------------------------------------------------------

func TestListClients_200(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		getAll: func(context.Context) ([]domain.Client, error) {
			return []domain.Client{clientFixture(), {ID: "c2", Name: "Beta Cargo"}}, nil
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodGet, "/api/clients", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Client
	decodeBody(t, rec, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
}

// ---- GET /api/clients/{id} --------------------------------------------------

func TestGetClient_200(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		getByID: func(_ context.Context, id string) (domain.Client, error) {
			require.Equal(t, "c1", id)
			return clientFixture(), nil
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodGet, "/api/clients/c1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Client
	decodeBody(t, rec, &got)
	assert.Equal(t, clientFixture(), got)
}

func TestGetClient_404(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	rec := doJSON(h, http.MethodGet, "/api/clients/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- POST /api/clients ------------------------------------------------------

func TestCreateClient_201(t *testing.T) {
	deps := &testDeps{}
	h := newTestRouter(t, deps)

	body := jsonBody(t, map[string]any{
		"name":  "New Client",
		"email": "billing@newclient.example",
	})
	rec := doJSON(h, http.MethodPost, "/api/clients", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Client
	decodeBody(t, rec, &got)
	assert.Equal(t, "client-new", got.ID)
	assert.Equal(t, "New Client", got.Name)

	// The created record lands in the cache.
	assert.Len(t, deps.store.Clients(), 1)
}

func TestCreateClient_400_MalformedJSON(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	rec := doJSON(h, http.MethodPost, "/api/clients", strings.NewReader("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateClient_422_MissingName(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	rec := doJSON(h, http.MethodPost, "/api/clients", jsonBody(t, map[string]any{
		"email": "a@b.example",
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateClient_422_BadEmail(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	rec := doJSON(h, http.MethodPost, "/api/clients", jsonBody(t, map[string]any{
		"name":  "New Client",
		"email": "not-an-email",
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateClient_502_RemoteFailure(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		create: func(context.Context, domain.Client) (domain.Client, error) {
			return domain.Client{}, errors.New("connection refused")
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodPost, "/api/clients", jsonBody(t, map[string]any{
		"name": "New Client",
	}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// A failed remote write must not touch the cache.
	assert.Empty(t, deps.store.Clients())
}

// ---- PUT /api/clients/{id} --------------------------------------------------

func TestUpdateClient_200(t *testing.T) {
	h := newTestRouter(t, &testDeps{})

	rec := doJSON(h, http.MethodPut, "/api/clients/c1", jsonBody(t, map[string]any{
		"name": "Renamed Client",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Client
	decodeBody(t, rec, &got)
	assert.Equal(t, "c1", got.ID, "path ID wins over body")
	assert.Equal(t, "Renamed Client", got.Name)
}

func TestUpdateClient_404(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		update: func(context.Context, string, domain.Client) (domain.Client, error) {
			return domain.Client{}, domain.ErrNotFound
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodPut, "/api/clients/missing", jsonBody(t, map[string]any{
		"name": "Renamed Client",
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /api/clients/{id} -----------------------------------------------

func TestDeleteClient_204(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		getAll: func(context.Context) ([]domain.Client, error) {
			return []domain.Client{clientFixture()}, nil
		},
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodDelete, "/api/clients/c1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, deps.store.Clients(), "deleted client should leave the cache")
}

func TestDeleteClient_404(t *testing.T) {
	deps := &testDeps{clients: &mockClientRepo{
		delete: func(context.Context, string) error { return domain.ErrNotFound },
	}}
	h := newTestRouter(t, deps)

	rec := doJSON(h, http.MethodDelete, "/api/clients/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
