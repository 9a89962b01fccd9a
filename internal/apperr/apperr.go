// Package apperr defines the application error taxonomy shared by the
// services and the HTTP boundary. Every user-visible failure is an *Error
// carrying a kind (mapped to an HTTP status) and a dotted wire code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
)

// Wire codes used across the API.
const (
	CodeInvalidToken    = "auth.invalid"
	CodeUnauthenticated = "auth.unauthenticated"
	CodeForbidden       = "auth.forbidden"
	CodeEmailTaken      = "auth.email_taken"
	CodeOrderNotFound   = "order.not_found"
	CodeOrderConflict   = "order.conflict"
	CodeMenuUnavailable = "menu.unavailable"
	CodeShopNotFound    = "shop.not_found"
	CodeValidation      = "validation.failed"
	CodeServerError     = "server.error"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Unauthenticated reports a missing, malformed, or expired credential.
func Unauthenticated(code, message string) *Error {
	return New(KindUnauthenticated, code, message)
}

// Forbidden reports a wrong role or a caller that does not own the resource.
func Forbidden(message string) *Error {
	return New(KindForbidden, CodeForbidden, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func Validation(message string) *Error {
	return New(KindValidation, CodeValidation, message)
}

// Internal wraps an unexpected failure. The wrapped error is logged at the
// boundary but never serialized to the client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeServerError, Message: "internal server error", Err: err}
}

// From extracts the *Error from err, or wraps err as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
