package domain

import (
	"errors"
	"fmt"
)

// DomainError is a portal error with a structured error code.
// Codes follow the format DMS-<AREA>-<NNNN>; the last four digits start
// with the HTTP status class the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "DMS-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// IsDomainError reports whether err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if it carries none.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Authentication errors (AUTH).
var (
	// ErrUnauthenticated means no session token is present. Guarded pages
	// recover from it by redirecting to the entry view; it is never shown.
	ErrUnauthenticated = NewDomainError("DMS-AUTH-4010", "not authenticated")

	// ErrInvalidCredentials means the backend rejected a login attempt.
	ErrInvalidCredentials = NewDomainError("DMS-AUTH-4011", "invalid username or password")

	// ErrSessionRejected means the backend no longer accepts the token.
	ErrSessionRejected = NewDomainError("DMS-AUTH-4012", "session rejected by backend")
)

// Session store errors (SESS).
var (
	// ErrSessionNotFound means no tab session exists for the given ID.
	ErrSessionNotFound = NewDomainError("DMS-SESS-4040", "tab session not found")

	// ErrSessionCookieInvalid means the tab cookie failed verification.
	ErrSessionCookieInvalid = NewDomainError("DMS-SESS-4001", "invalid tab session cookie")

	// ErrSessionStorage means the session backend failed.
	ErrSessionStorage = NewDomainError("DMS-SESS-5001", "session storage error")
)

// Navigation errors (NAV).
var (
	// ErrRouteNotFound means no route entry matches the requested path.
	ErrRouteNotFound = NewDomainError("DMS-NAV-4040", "route not found")

	// ErrRouteConflict means a route pattern was declared twice.
	ErrRouteConflict = NewDomainError("DMS-NAV-4090", "route already declared")

	// ErrPayloadInvalid means a navigation payload could not be decoded.
	ErrPayloadInvalid = NewDomainError("DMS-NAV-4001", "invalid navigation payload")
)

// Backend and system errors (SYS).
var (
	// ErrBackendUnavailable means the DMS backend could not be reached.
	ErrBackendUnavailable = NewDomainError("DMS-SYS-5030", "backend unavailable")

	// ErrInternal indicates an unexpected portal failure.
	ErrInternal = NewDomainError("DMS-SYS-5000", "internal error")

	// ErrBadRequest indicates a malformed form submission.
	ErrBadRequest = NewDomainError("DMS-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests from one client.
	ErrRateLimited = NewDomainError("DMS-SYS-4290", "too many requests")
)

// Argument errors (ARG).
var (
	// ErrInvalidArgument indicates a form field failed validation.
	ErrInvalidArgument = NewDomainError("DMS-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required form field is empty.
	ErrMissingArgument = NewDomainError("DMS-ARG-1002", "missing required argument")
)
