package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds for every failure the services can report. Handlers map
// these to HTTP statuses; everything else is treated as internal.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error wraps a sentinel kind with a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

// Validationf reports a missing or malformed input field.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports a denied operation without leaking policy detail.
func Forbidden() error {
	return &Error{Kind: ErrForbidden, Msg: "operation not permitted"}
}

// NotFoundf reports an absent operation target.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf reports a unique-constraint collision such as a duplicate email.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected store failure. The cause is kept for logs;
// callers see only the generic kind.
func Internal(err error) error {
	return &Error{Kind: ErrInternal, Msg: fmt.Sprintf("internal error: %v", err)}
}
