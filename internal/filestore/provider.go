// Package filestore abstracts where document files physically live.
// The record store only ever sees the opaque URI a Provider returns; all
// knowledge of directories, servers and credentials stays behind this
// interface.
package filestore

import "context"

// Provider stores and retrieves document files by a relative path like
// "trips/<trip-id>/<filename>". Upload returns an opaque URI for the stored
// file; consumers persist it on the Document record and pass the same
// relative path back for Download and Delete.
type Provider interface {
	Upload(ctx context.Context, path string, content []byte) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	// Delete removes the file at path. Deleting a file that does not exist
	// is not an error, so cleanup is safe to retry.
	Delete(ctx context.Context, path string) error
}
