package domain

import (
	"errors"
	"fmt"
)

// Client-facing failures. Anything that does not match one of these is fatal.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")

	// ErrUnknownPrincipal means an authenticated caller has no backing user record.
	ErrUnknownPrincipal = errors.New("unknown principal")

	ErrPatientNotFound    = fmt.Errorf("%w: patient not found", ErrValidation)
	ErrInvalidCredentials = errors.New("invalid credentials")
)
