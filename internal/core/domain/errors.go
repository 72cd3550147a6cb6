package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned across a port boundary either is one of
// these sentinels or wraps one, so the HTTP layer can map it with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrUserExists         = errors.New("user already exists")
	ErrStaleWrite         = errors.New("resource was modified concurrently")
	ErrUserHasDependents  = errors.New("user still owns listings or appointments")
)

// Resource-specific not-found errors; all of them match ErrNotFound.
var (
	ErrUserNotFound        = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrProductNotFound     = &Error{Kind: ErrNotFound, Msg: "product not found"}
	ErrPetNotFound         = &Error{Kind: ErrNotFound, Msg: "pet not found"}
	ErrAppointmentNotFound = &Error{Kind: ErrNotFound, Msg: "appointment not found"}
)

// Error pairs an error kind with a message that is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind with a formatted client message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
