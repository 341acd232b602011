// Package errors provides centralized error definitions and error handling
// utilities for the specchio codebase. It defines domain-specific errors,
// error constructors with context wrapping, classification helpers, and the
// mapping from errors to process exit codes.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - StatusError: errors fetching or decoding the mirror status feed
//   - OutputError: errors writing the generated mirror list
//   - PlatformError: errors selecting or dispatching a target platform
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input, flag, or configuration value
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewStatusError("request failed", cause).WithURL(url)
//	err := errors.NewValidationError("unknown sort key").WithField("sort.keys")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNoMirrors) { ... }
//
//	var statusErr *errors.StatusError
//	if errors.As(err, &statusErr) { ... }
//
// Mapping to an exit code at the process boundary:
//
//	os.Exit(errors.ExitCode(err))
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Process exit codes. ExitUnsupported mirrors the historical behavior of
// mirror list tools on platforms without a status backend.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUnsupported = 2
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoMirrors indicates that no mirrors survived filtering.
	ErrNoMirrors = New("no mirrors found")
	// ErrStatusUnavailable indicates that the mirror status feed could not be
	// downloaded or decoded.
	ErrStatusUnavailable = New("mirror status unavailable")
	// ErrNotImplemented indicates a platform without a status backend.
	ErrNotImplemented = New("not implemented")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// StatusError represents a failure to fetch or decode the mirror status feed.
//
// Example:
//
//	err := errors.NewStatusError("unexpected response", nil).
//		WithURL(url).WithHTTPStatus(503)
type StatusError struct {
	baseError
	URL        string
	HTTPStatus int
}

// NewStatusError creates a new StatusError. Fetch failures are transient by
// default: the feed is regenerated continuously server-side.
func NewStatusError(message string, cause error) *StatusError {
	return &StatusError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			retryable: true,
		},
	}
}

// WithURL adds the requested URL to the error context.
func (e *StatusError) WithURL(url string) *StatusError {
	e.URL = url
	return e
}

// WithHTTPStatus adds the HTTP response status to the error context.
// Client errors (4xx) mark the error as non-retryable.
func (e *StatusError) WithHTTPStatus(status int) *StatusError {
	e.HTTPStatus = status
	if status >= 400 && status < 500 {
		e.retryable = false
	}
	return e
}

// Error returns the formatted error message.
func (e *StatusError) Error() string {
	var parts []string
	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("url=%s", e.URL))
	}
	if e.HTTPStatus != 0 {
		parts = append(parts, fmt.Sprintf("http=%d", e.HTTPStatus))
	}

	prefix := "status error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("status error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StatusError) Is(target error) bool {
	if _, ok := target.(*StatusError); ok {
		return true
	}
	if target == ErrStatusUnavailable {
		return true
	}
	return e.baseError.Is(target)
}

// OutputError represents a failure to write the generated mirror list.
//
// Example:
//
//	err := errors.NewOutputError("cannot write mirror list", cause).WithPath(path)
type OutputError struct {
	baseError
	Path string
}

// NewOutputError creates a new OutputError.
func NewOutputError(message string, cause error) *OutputError {
	return &OutputError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithPath adds the output path to the error context.
func (e *OutputError) WithPath(path string) *OutputError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *OutputError) Error() string {
	prefix := "output error"
	if e.Path != "" {
		prefix = fmt.Sprintf("output error [path=%s]", e.Path)
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *OutputError) Is(target error) bool {
	if _, ok := target.(*OutputError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PlatformError represents a failure to select a target platform, either
// because the machine architecture is unknown or because the platform has no
// status backend.
type PlatformError struct {
	baseError
	Platform string
}

// NewPlatformError creates a new PlatformError wrapping ErrNotImplemented.
func NewPlatformError(platform string) *PlatformError {
	return &PlatformError{
		baseError: baseError{
			message: fmt.Sprintf("no status backend for %q", platform),
			cause:   ErrNotImplemented,
		},
		Platform: platform,
	}
}

// Error returns the formatted error message.
func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform error: %s", e.message)
}

// Is checks if this error matches the target.
func (e *PlatformError) Is(target error) bool {
	if _, ok := target.(*PlatformError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents an invalid input, flag, or configuration value.
//
// Example:
//
//	err := errors.NewValidationError("limit must be positive").
//		WithField("output.limit").WithValue(-3)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message: message,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// retryable is implemented by errors that know whether retrying may help.
type retryable interface {
	IsRetryable() bool
}

// IsRetryable returns true if the error represents a transient condition that
// may succeed on retry, such as a feed fetch hitting a 5xx response.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var r retryable
	if As(err, &r) {
		return r.IsRetryable()
	}

	return false
}

// ExitCode maps an error to the process exit code. Unsupported platforms exit
// with a distinct code so wrapper scripts can tell "nothing to do here" from
// an operational failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if Is(err, ErrNotImplemented) {
		return ExitUnsupported
	}
	return ExitFailure
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "loading configuration")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "fetching %s", url)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
