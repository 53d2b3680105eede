package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer. Services wrap
// these sentinels with context; handlers map them to status codes with
// errors.Is.
var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when attempting to register with an existing username.
	ErrConflict = errors.New("already exists")
	// ErrForbidden indicates an authenticated principal lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
)
