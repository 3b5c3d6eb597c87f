package filestore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cargoflow/internal/filestore"
)

// compile-time check: WebDAV must satisfy Provider.
var _ filestore.Provider = (*filestore.WebDAV)(nil)

// davServer is a minimal in-memory WebDAV endpoint supporting MKCOL, PUT,
// GET and DELETE, enough to exercise the client.
type davServer struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	// failPuts makes the next n PUT requests return 503.
	failPuts int
}

func newDAVServer() *davServer {
	return &davServer{files: map[string][]byte{}, dirs: map[string]bool{}}
}

func (s *davServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, pass, ok := r.BasicAuth(); !ok || user != "dav-user" || pass != "dav-pass" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case "MKCOL":
		if s.dirs[r.URL.Path] {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.dirs[r.URL.Path] = true
		w.WriteHeader(http.StatusCreated)
	case http.MethodPut:
		if s.failPuts > 0 {
			s.failPuts--
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, _ := io.ReadAll(r.Body)
		s.files[r.URL.Path] = body
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		data, ok := s.files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)
	case http.MethodDelete:
		if _, ok := s.files[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.files, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newWebDAV(t *testing.T) (*filestore.WebDAV, *davServer) {
	t.Helper()
	srv := newDAVServer()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	dav := filestore.NewWebDAV(ts.URL+"/remote.php/dav/files/dav-user", "dav-user", "dav-pass", "cargoflow")
	return dav, srv
}

func TestWebDAV_UploadDownloadRoundTrip(t *testing.T) {
	dav, srv := newWebDAV(t)
	ctx := context.Background()

	uri, err := dav.Upload(ctx, "trips/t1/waybill.pdf", []byte("pdf bytes"))

	require.NoError(t, err)
	assert.Contains(t, uri, "/cargoflow/trips/t1/waybill.pdf")
	// Intermediate collections were created on the way.
	assert.True(t, srv.dirs["/remote.php/dav/files/dav-user/cargoflow"])
	assert.True(t, srv.dirs["/remote.php/dav/files/dav-user/cargoflow/trips"])
	assert.True(t, srv.dirs["/remote.php/dav/files/dav-user/cargoflow/trips/t1"])

	data, err := dav.Download(ctx, "trips/t1/waybill.pdf")

	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestWebDAV_UploadRetriesTransientFailures(t *testing.T) {
	dav, srv := newWebDAV(t)
	srv.failPuts = 2 // first two PUTs return 503, third succeeds

	_, err := dav.Upload(context.Background(), "trips/t1/contract.pdf", []byte("x"))

	require.NoError(t, err)
	_, ok := srv.files["/remote.php/dav/files/dav-user/cargoflow/trips/t1/contract.pdf"]
	assert.True(t, ok, "file should be stored after retries")
}

func TestWebDAV_DeleteIsIdempotent(t *testing.T) {
	dav, _ := newWebDAV(t)
	ctx := context.Background()

	_, err := dav.Upload(ctx, "trips/t1/invoice.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, dav.Delete(ctx, "trips/t1/invoice.pdf"))
	// The server answers 404 for the second delete; the client maps that to success.
	require.NoError(t, dav.Delete(ctx, "trips/t1/invoice.pdf"))
}

func TestWebDAV_DownloadMissing(t *testing.T) {
	dav, _ := newWebDAV(t)

	_, err := dav.Download(context.Background(), "trips/none/missing.pdf")

	assert.Error(t, err)
}
