// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized fault taxonomy for Wanderlust.

Every fault raised by a guard, a schema check, a repository or an action is
either an [*AppError] or an unclassified error. The error responder only ever
looks at the classification carried here to decide which status code and which
message reach the browser.

Taxonomy:

  - VALIDATION_ERROR (400): a form payload violated its schema.
  - UNAUTHORIZED (401): no identity or bad credentials. Guards resolve it inline.
  - FORBIDDEN (403): the current identity does not own the resource.
  - NOT_FOUND (404): the resource or the page does not exist.
  - CONFLICT (409): a unique value (username, email) is already taken.
  - RATE_LIMITED (429): the client exceeded its request budget.
  - INTERNAL_ERROR (500): anything else. The cause is for operators only.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable fault codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// GenericMessage is the only message an unclassified fault ever shows a user.
const GenericMessage = "Something went wrong"

// AppError is the canonical fault type for the Wanderlust server.
//
// # Security
//
// The Cause field is for server-side logging only and is never rendered,
// so raw driver errors and stack details cannot leak into a page.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string
	// Message is a human-readable description safe to show to the user.
	Message string
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int
	// Cause is the underlying error, used for server-side logging only.
	Cause error
	// Details holds per-field violations for VALIDATION_ERROR faults.
	Details []FieldError
}

// FieldError represents a single field-level schema violation.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string
	// Message is the human-readable description of the failure.
	Message string
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Listing") // "Listing not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// PageNotFound creates the 404 [AppError] used for unmatched routes.
func PageNotFound() *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    "Page Not Found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// MethodNotAllowed creates a 405 [AppError] for a known path hit with the wrong verb.
func MethodNotAllowed() *AppError {
	return &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method Not Allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never shown to the user.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    GenericMessage,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound reports whether err is classified as NOT_FOUND.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
