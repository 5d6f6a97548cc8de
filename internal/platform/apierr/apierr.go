package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// statusFor lists the service error kinds in match order. An unknown user is
// a client mistake (400), a missing store is an upstream one (424).
var statusFor = []struct {
	kind   error
	status int
	code   string
}{
	{apperrors.ErrDataUnavailable, http.StatusFailedDependency, "data_unavailable"},
	{apperrors.ErrUnknownUser, http.StatusBadRequest, "unknown_user"},
	{apperrors.ErrInvalidArgument, http.StatusBadRequest, "invalid_request"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
}

// From maps a service error onto its HTTP status and error code; anything
// unclassified is a 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, m := range statusFor {
		if errors.Is(err, m.kind) {
			return New(m.status, m.code, err)
		}
	}
	return New(http.StatusInternalServerError, "internal", err)
}
