// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the tagged error type shared by the store, service
// and HTTP layers. Every failure a caller can act on carries a Kind; the HTTP
// boundary maps the Kind to a status code and a structured JSON body.
//
// Usage:
//
//	if existing != nil {
//	    return nil, apperr.Conflictf("username %q is already taken", name)
//	}
//
//	if apperr.KindOf(err) == apperr.KindNotFound {
//	    ...
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and for the HTTP boundary.
type Kind string

// Error kinds.
const (
	KindMissingArgument Kind = "MISSING_ARGUMENT"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION"
	KindStore           Kind = "STORE"
)

// HTTPStatus returns the status code the API answers with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingArgument, KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a kind, a message and optional details.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrMissingArgument = &Error{Kind: KindMissingArgument, Message: "missing argument"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation error"}
	ErrStore           = &Error{Kind: KindStore, Message: "store error"}
)

// MissingArgument reports that a required field was absent.
func MissingArgument(field string) *Error {
	return &Error{Kind: KindMissingArgument, Message: "missing argument: " + field}
}

// Conflictf reports a uniqueness violation.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf reports a missing record.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden reports an authenticated caller acting outside its rights.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Validation reports malformed input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ValidationWithDetails reports malformed input with per-field messages.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Store wraps an unexpected persistence failure.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "store error", cause: err}
}

// KindOf returns the Kind of the first *Error in err's chain. Errors that
// carry no Kind are reported as KindStore; a nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}
