// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package apperr defines the tagged error result shared by every ImChat service.

Services never return an ok-shaped payload with an error code inside it. They
return either a value or an [*AppError] whose Code tells the caller which kind
of failure happened.

Taxonomy:

  - NOT_A_MEMBER: history requested for a (user, group) pair with no membership.
  - FORBIDDEN: the caller lacks the capability for the operation.
  - FAILURE: an underlying storage error. The cause is kept for logging.
  - NOT_FOUND, CONFLICT, VALIDATION_ERROR, UNAUTHORIZED, RATE_LIMITED: the
    request-shaped errors used by the account and group services.

None of these are retried by the core. Retry policy belongs to the caller.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeNotAMember   = "NOT_A_MEMBER"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeFailure      = "FAILURE"
)

// AppError is the canonical error type for the ImChat core.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "FAILURE").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the status an HTTP adapter should answer with.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
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
//	apperr.NotFound("Group") // Returns "Group not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// NotAMember creates a 403 [AppError] for history requested by a non-member.
func NotAMember(groupID string) *AppError {
	return &AppError{
		Code:       CodeNotAMember,
		Message:    fmt.Sprintf("Not a member of group %s", groupID),
		HTTPStatus: http.StatusForbidden,
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

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Failure creates a 500 [AppError] wrapping a storage or infrastructure error.
// The cause is stored for logging but is never sent to the client.
func Failure(cause error) *AppError {
	return &AppError{
		Code:       CodeFailure,
		Message:    "An unexpected error occurred",
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

// IsNotFound reports whether err is a NOT_FOUND [AppError].
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// Ensure converts any error into an [*AppError]. Errors that are already
// tagged pass through untouched; anything else becomes a FAILURE.
func Ensure(err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return Failure(err)
}
