package services

import "errors"

// Business failures are sentinel errors so handlers can map them to
// status codes with errors.Is. Collaborator failures (db, redis, smtp)
// pass through untouched and become 500s.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidRole  = errors.New("invalid role")
	ErrValidation   = errors.New("validation failed")
)
