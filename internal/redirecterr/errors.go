// Package redirecterr provides structured errors for httpsredirect.
//
// Errors carry a machine-readable code, a human-readable message, an
// optional cause and optional key/value details. Only startup and lifecycle
// failures are expressed as errors; per-request problems are answered with
// an HTTP response instead.
package redirecterr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

//nolint:gochecknoglobals
var (
	// Is forwards to errors.Is.
	Is = errors.Is

	// As forwards to errors.As.
	As = errors.As
)

// Code is a machine-readable error identifier.
type Code string

// Details holds contextual key/value data attached to an error.
type Details map[string]any

// Option customizes an Error at construction time.
type Option func(*Error)

// WithError sets the underlying cause.
func WithError(err error) Option {
	return func(e *Error) {
		e.Err = err
	}
}

// WithDetails merges details into the error.
func WithDetails(details Details) Option {
	return func(e *Error) {
		if e.Details == nil {
			e.Details = make(Details, len(details))
		}

		for k, v := range details {
			e.Details[k] = v
		}
	}
}

// Error is the structured error returned by config and server code.
//
// Example:
//
//	return redirecterr.New(
//	    redirecterr.CodeBindError,
//	    "failed to bind listener",
//	    redirecterr.WithError(err),
//	    redirecterr.WithDetails(redirecterr.Details{"addr": addr}),
//	)
type Error struct {
	Code    Code    // Machine-readable error code
	Message string  // Human-readable message
	Err     error   // Underlying error (optional)
	Details Details // Additional context (optional)
}

// New creates a structured error.
func New(code Code, message string, opts ...Option) error {
	err := &Error{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(err)
	}

	return err
}

// Error formats the error as "CODE: message [k=v, ...] (cause)".
// Details are printed in key order so output is stable.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		sb.WriteString(" [")

		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}

			fmt.Fprintf(&sb, "%s=%v", k, e.Details[k])
		}

		sb.WriteString("]")
	}

	if e.Err != nil {
		sb.WriteString(" (")
		sb.WriteString(e.Err.Error())
		sb.WriteString(")")
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}

	return false
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var rErr *Error
	for err != nil {
		if !As(err, &rErr) {
			return false
		}

		if rErr.Code == code {
			return true
		}

		err = rErr.Err
	}

	return false
}

const (
	// CodeConfigError indicates a configuration problem.
	CodeConfigError Code = "CONFIG_ERROR"

	// CodeBindError indicates the listening socket could not be bound.
	CodeBindError Code = "BIND_ERROR"

	// CodeServerError indicates the HTTP server failed while serving.
	CodeServerError Code = "SERVER_ERROR"

	// CodeShutdownError indicates graceful shutdown did not complete.
	CodeShutdownError Code = "SHUTDOWN_ERROR"
)
