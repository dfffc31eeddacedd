package models

import "errors"

// Sentinel errors shared across services and repositories. Handlers map them
// to HTTP statuses with errors.Is; the messages travel to the caller verbatim.
var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEmail = errors.New("email already exists")
)
