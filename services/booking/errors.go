package booking

import (
	"context"
	"errors"
	"fmt"

	"naksha/utils"
)

// Error is the booking engine's typed error, carrying a taxonomy code
// handlers translate to HTTP statuses.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code, defaulting to INTERNAL.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return utils.CodeInternal
}

func wrapDB(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Code: utils.CodeDeadline, Message: err.Error()}
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: utils.CodeInfra, Message: err.Error()}
}
