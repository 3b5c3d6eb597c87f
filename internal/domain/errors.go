package domain

import "errors"

// ErrNotFound is returned by repo and store functions when the requested
// record does not exist in the remote collection store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, unknown trip status).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
