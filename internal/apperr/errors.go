// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services wrap these sentinels with context; handlers classify with
// errors.Is.
package apperr

import "errors"

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrUnauthorized      = errors.New("access denied")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient tokens")
	ErrExternalService   = errors.New("external service error")
	ErrDuplicate         = errors.New("resource already exists")
	ErrValidation        = errors.New("validation failed")
)
