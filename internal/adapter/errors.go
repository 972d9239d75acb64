package adapter

import "errors"

// Transport-agnostic sentinel errors mapped from server responses.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("client unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("entity not found")
	ErrVersionConflict   = errors.New("version conflict")
	ErrServerUnavailable = errors.New("server unavailable")
)
