// Package source defines the domain models and interfaces for live channel discovery and stream retrieval.
package source

import "fmt"

// Error represents a recoverable transport or fetch fault raised by a provider.
// A scheduled playlist reload that hits one logs it and skips the cycle;
// any other error kind terminates the owning stream.
type Error struct {
	Op  string
	Err error
}

// NewError wraps an underlying fault with the operation that produced it.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// Errorf constructs a recoverable fault from a format string.
func Errorf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Recoverable marks the fault as survivable by the polling worker.
func (e *Error) Recoverable() bool {
	return true
}
