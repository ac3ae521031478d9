// Package errs carries the error taxonomy surfaced to API callers. Each
// error has a kind that maps onto an HTTP status code; anything that is not
// an *errs.Error is treated as an internal failure.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota + 1
	Unauthenticated
	Unauthorized
	NotFound
	Conflict
	Internal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error {
	return newf(Validation, format, args...)
}

func Unauthenticatedf(format string, args ...any) error {
	return newf(Unauthenticated, format, args...)
}

func Unauthorizedf(format string, args ...any) error {
	return newf(Unauthorized, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return newf(NotFound, format, args...)
}

func Conflictf(format string, args ...any) error {
	return newf(Conflict, format, args...)
}

// KindOf reports the kind of err, defaulting to Internal for errors that did
// not originate here (driver failures and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to its response status code. Duplicate-field
// conflicts surface as 400 to match the public interface contract.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
