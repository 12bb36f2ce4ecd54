package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes application errors for outcome reporting.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates a malformed target (URL, host, port, or path).
	InvalidInput
	// NotFound indicates a required input file does not exist.
	NotFound
	// Unreachable indicates the target could not be reached.
	Unreachable
	// Timeout indicates the target took too long to respond.
	Timeout
	// Refused indicates the target actively refused the connection.
	Refused
	// DNSFailure indicates the target hostname could not be resolved.
	DNSFailure
)

// String returns the kind's name for log fields.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case Refused:
		return "refused"
	case DNSFailure:
		return "dns_failure"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target, if any
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of err if it is (or wraps) an AppError,
// and Unknown otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
