// Package apperr classifies domain failures so transports can map them to
// status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind is the category of a domain error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified failure. Msg is safe to show to API clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Wrap returns a new error of the same kind as sentinel with a more specific
// message. errors.Is(err, sentinel) still holds for the result.
func Wrap(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Msg: fmt.Sprintf(format, args...), Err: sentinel}
}

// KindOf reports the kind of the first classified error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Message returns the client-facing message for err. Internal errors never
// leak their details.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}

	return "internal error"
}

// Compensate runs a rollback and logs its failure. Used in defers after the
// primary error has already been returned to the caller.
func Compensate(op string, rollback func() error) {
	if err := rollback(); err != nil {
		slog.Error("rollback failed", "op", op, "error", err)
	}
}
