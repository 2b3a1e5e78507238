package ledger

import (
	"errors"
	"fmt"
)

// Code classifies a ledger failure.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeAuth       Code = "AUTH"
	CodeForbidden  Code = "FORBIDDEN"
	CodeConflict   Code = "CONFLICT"
	CodeStorage    Code = "STORAGE"
)

// Error is returned by every ledger operation. Match it by category with
// errors.Is against the sentinels below.
type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

var (
	ErrValidation = &Error{Code: CodeValidation}
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrAuth       = &Error{Code: CodeAuth}
	ErrForbidden  = &Error{Code: CodeForbidden}
	ErrConflict   = &Error{Code: CodeConflict}
	ErrStorage    = &Error{Code: CodeStorage}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the ledger code carried by err, or CodeStorage for
// anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorage
}

func validationError(field, message string) error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func notFoundError(entity string) error {
	return &Error{Code: CodeNotFound, Field: entity, Message: "not found"}
}

func forbiddenError(message string) error {
	return &Error{Code: CodeForbidden, Message: message}
}

func authError(message string) error {
	return &Error{Code: CodeAuth, Message: message}
}
