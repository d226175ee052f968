package services

import "errors"

// Errors returned by the services. Handlers translate them to HTTP statuses.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("could not validate credentials")
	ErrInvalidCredential = errors.New("incorrect password")
	ErrAlreadyComplete   = errors.New("task already complete")
	ErrConflict          = errors.New("username or email already registered")
)
