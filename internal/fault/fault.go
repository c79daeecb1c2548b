// Package fault defines the error taxonomy shared by the clock core.
//
// Every fallible operation in the core wraps exactly one of the sentinels
// below, so callers can branch with errors.Is regardless of the message.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a nil or out-of-range input at a public boundary.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRange reports a value outside its domain: a bad month, an
	// unsatisfiable recurrence rule, an out-of-bounds button index.
	ErrRange = errors.New("out of range")
	// ErrOverflow reports a destination text buffer that is too small.
	ErrOverflow = errors.New("overflow")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return wrap(ErrInvalidArgument, format, args...)
}

// Range returns an error wrapping ErrRange.
func Range(format string, args ...any) error {
	return wrap(ErrRange, format, args...)
}

// Overflow returns an error wrapping ErrOverflow.
func Overflow(format string, args ...any) error {
	return wrap(ErrOverflow, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
