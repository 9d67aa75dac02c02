// Package errors provides the structured error taxonomy for the relnote CLI.
// Every fatal condition falls into one of four categories: range/branch
// resolution, range traversal, pull-request fetching, and configuration.
// None of them are recovered internally; they propagate to the top level
// where the CLI renders them and maps them to exit codes.
package errors

import "fmt"

// Category classifies a fatal error.
type Category int

const (
	// Resolution errors mean the commit range or branch could not be determined.
	Resolution Category = iota
	// Traversal errors mean a range yielded no valid commit enumeration.
	Traversal
	// Fetch errors mean a pull-request provider call failed. Never retried;
	// no partial output is emitted.
	Fetch
	// Config errors cover unrecognized output modes, invalid numeric options,
	// and data-integrity faults in provider records.
	Config
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case Resolution:
		return "Resolution Error"
	case Traversal:
		return "Traversal Error"
	case Fetch:
		return "Fetch Error"
	case Config:
		return "Configuration Error"
	default:
		return "Error"
	}
}

// Error is a categorized fatal error with optional remediation guidance.
type Error struct {
	// Category is the taxonomy bucket this error belongs to.
	Category Category
	// Message describes what went wrong.
	Message string
	// Remediation lists actionable steps to resolve the error.
	Remediation []string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewResolutionError creates a range/branch resolution error.
func NewResolutionError(message string, remediation ...string) *Error {
	return &Error{Category: Resolution, Message: message, Remediation: remediation}
}

// NewTraversalError creates a range traversal error. An empty range is
// reported this way too; the message states the empty case explicitly so
// callers can tell it apart from a malformed expression.
func NewTraversalError(message string, remediation ...string) *Error {
	return &Error{Category: Traversal, Message: message, Remediation: remediation}
}

// NewFetchError creates a provider fetch error.
func NewFetchError(message string, remediation ...string) *Error {
	return &Error{Category: Fetch, Message: message, Remediation: remediation}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, remediation ...string) *Error {
	return &Error{Category: Config, Message: message, Remediation: remediation}
}

// Wrap wraps an existing error into the given category, preserving the
// cause for Unwrap. Returns nil when err is nil.
func Wrap(err error, category Category, message string, remediation ...string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// As attempts to convert an error to a categorized Error.
// Returns nil if the error is not one.
func As(err error) *Error {
	e, ok := err.(*Error)
	if ok {
		return e
	}
	return nil
}

// IsCategory reports whether err is a categorized Error of the given category.
func IsCategory(err error, category Category) bool {
	e := As(err)
	return e != nil && e.Category == category
}
