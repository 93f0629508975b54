package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input or reference data fails validation
// (e.g. duplicate room category names, a malformed query parameter).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRunInProgress is returned by the pricing service when a run is requested
// while another run is still executing. Handlers should map this to HTTP 409.
var ErrRunInProgress = errors.New("pricing run already in progress")
