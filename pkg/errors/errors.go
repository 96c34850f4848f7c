package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ErrorType represents the failure classes a scrape run can hit
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a page operation failure with type information
type Error struct {
	Type ErrorType
	Op   string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s error during %s (%s): %v", e.Type, e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Type, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err as a typed error. A nil err yields nil.
func New(t ErrorType, op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Op: op, ID: id, Err: err}
}

// Classify wraps err using the timeout type when the underlying cause is an
// expired deadline and fallback otherwise.
func Classify(fallback ErrorType, op, id string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stderrors.As(err, &typed) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return New(ErrorTypeTimeout, op, id, err)
	}
	return New(fallback, op, id, err)
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeUnknown
}

// IsRecoverable reports whether the run may continue after err.
// Only export trigger failures are recoverable; missing elements and script
// errors share that class.
func IsRecoverable(err error) bool {
	return TypeOf(err) == ErrorTypeExport
}
