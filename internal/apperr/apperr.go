// Package apperr holds the error kinds shared by the store, the repositories
// and the collaborator clients. Callers wrap a kind with %w and handlers match
// it with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
	ErrCollaborator = errors.New("collaborator error")
)

func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

// Storage keeps the cause in the chain so both ErrStorage and the underlying
// error can be matched.
func Storage(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, fmt.Sprintf(format, args...), cause)
}

func Collaborator(cause error, format string, args ...any) error {
	if cause == nil {
		return wrap(ErrCollaborator, format, args...)
	}
	return fmt.Errorf("%w: %s: %w", ErrCollaborator, fmt.Sprintf(format, args...), cause)
}

// Message strips the kind prefix, leaving the text meant for API callers.
func Message(err error) string {
	var m *messageError
	if errors.As(err, &m) {
		return m.msg
	}
	return err.Error()
}

type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.kind.Error() + ": " + e.msg }

func (e *messageError) Unwrap() error { return e.kind }

func wrap(kind error, format string, args ...any) error {
	return &messageError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
