package services

import "errors"

// Stable error categories. Services wrap these with context via
// fmt.Errorf("...: %w", Err*); the API layer maps them to status codes with
// errors.Is and never leaks anything else to clients.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)
