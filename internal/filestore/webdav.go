package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// WebDAV implements Provider against a Nextcloud-style WebDAV endpoint.
// Files are stored under baseDir; parent collections are created with MKCOL
// before each upload. Transient failures (network errors, 5xx responses) on
// uploads are retried with fibonacci backoff before giving up.
type WebDAV struct {
	baseURL  string // e.g. https://cloud.example.com/remote.php/dav/files/username
	username string
	password string
	baseDir  string
	client   *http.Client
}

// NewWebDAV constructs a WebDAV provider. baseURL must include the DAV files
// prefix and username segment; baseDir is the directory all documents live
// under (created on demand).
func NewWebDAV(baseURL, username, password, baseDir string) *WebDAV {
	return &WebDAV{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		baseDir:  strings.Trim(baseDir, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// fileURL builds the DAV URL for a relative document path.
func (w *WebDAV) fileURL(path string) string {
	segments := strings.Split(w.baseDir+"/"+strings.Trim(path, "/"), "/")
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(s))
	}
	return w.baseURL + "/" + strings.Join(escaped, "/")
}

func (w *WebDAV) do(ctx context.Context, method, rawURL string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("filestore: build request: %w", err)
	}
	req.SetBasicAuth(w.username, w.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	return w.client.Do(req)
}

// ensureDirs issues MKCOL for every collection on the way to path's parent.
// 201 means created, 405 means it already exists; both are fine.
func (w *WebDAV) ensureDirs(ctx context.Context, path string) error {
	segments := strings.Split(w.baseDir+"/"+strings.Trim(path, "/"), "/")
	if len(segments) > 0 {
		segments = segments[:len(segments)-1] // drop the file name
	}

	prefix := w.baseURL
	for _, s := range segments {
		if s == "" {
			continue
		}
		prefix += "/" + url.PathEscape(s)
		resp, err := w.do(ctx, "MKCOL", prefix, nil)
		if err != nil {
			return fmt.Errorf("filestore: mkcol: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusMethodNotAllowed {
			return fmt.Errorf("filestore: mkcol %s: unexpected status %d", prefix, resp.StatusCode)
		}
	}
	return nil
}

// Upload PUTs the file and returns its DAV URL as the document URI.
func (w *WebDAV) Upload(ctx context.Context, path string, content []byte) (string, error) {
	if err := w.ensureDirs(ctx, path); err != nil {
		return "", err
	}

	target := w.fileURL(path)
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := w.do(ctx, http.MethodPut, target, content)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("filestore: put: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent:
			return nil
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("filestore: put %s: status %d", target, resp.StatusCode))
		default:
			return fmt.Errorf("filestore: put %s: status %d", target, resp.StatusCode)
		}
	})
	if err != nil {
		return "", err
	}
	return target, nil
}

// Download GETs the file bytes.
func (w *WebDAV) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := w.do(ctx, http.MethodGet, w.fileURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("filestore: get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filestore: get %s: status %d", w.fileURL(path), resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("filestore: read body: %w", err)
	}
	return data, nil
}

// Delete removes the remote file. 404 is treated as already deleted.
func (w *WebDAV) Delete(ctx context.Context, path string) error {
	resp, err := w.do(ctx, http.MethodDelete, w.fileURL(path), nil)
	if err != nil {
		return fmt.Errorf("filestore: delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("filestore: delete %s: status %d", w.fileURL(path), resp.StatusCode)
	}
	return nil
}
