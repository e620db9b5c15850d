package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error carrying a stable kind code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones match their sentinel.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined error kinds.
var (
	ErrValidation   = New("VALIDATION_ERROR", "validation failed")
	ErrDuplicate    = New("DUPLICATE_ENTITY", "entity already exists")
	ErrNotFound     = New("NOT_FOUND", "resource not found")
	ErrInvalidState = New("INVALID_STATE", "operation not permitted in current state")
	ErrImportRow    = New("IMPORT_ROW_ERROR", "import row rejected")
	ErrImportSource = New("IMPORT_SOURCE_ERROR", "import source unavailable")
	ErrInternal     = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Clonef is Clone with a formatted message.
func Clonef(err *Error, format string, args ...interface{}) *Error {
	return Clone(err, fmt.Sprintf(format, args...))
}

// CodeOf returns the kind code of err, or ErrInternal's code for foreign errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Code
}
