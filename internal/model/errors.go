package model

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map each kind to an HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNoChanges          = fmt.Errorf("%w: no fields to update", ErrValidation)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrConflict           = errors.New("data conflicts with existing data in unique column")
	ErrNotFound           = errors.New("data not found")
)

// Error pairs an error kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf returns an *Error of the given kind with a formatted client message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
