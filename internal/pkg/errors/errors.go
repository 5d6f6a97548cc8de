package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable marks a read-side store or provider failure (including timeouts).
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnknownUser is returned when no profile exists for the requested user.
	ErrUnknownUser = errors.New("unknown user")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTransition rejects a micro-moment status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Unavailable wraps a read failure so callers can match ErrDataUnavailable.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, op, err)
}

// Invalid wraps a validation message as ErrInvalidArgument.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
