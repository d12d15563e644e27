package handlers

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API error with a machine-readable code and an HTTP status.
// Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

// Common request errors.
var (
	ErrInvalidJSON   = NewError("invalid_json", "Invalid JSON body", http.StatusBadRequest)
	ErrMissingParam  = NewError("rest_missing_callback_param", "Missing parameter", http.StatusBadRequest)
	ErrInvalidParam  = NewError("rest_invalid_param", "Invalid parameter", http.StatusBadRequest)
	ErrForbidden     = NewError("rest_forbidden", "Sorry, you are not allowed to do that.", http.StatusForbidden)
	ErrNotLoggedIn   = NewError("rest_forbidden", "Sorry, you are not allowed to do that.", http.StatusUnauthorized)
	ErrInternal      = NewError("internal_error", "Internal server error", http.StatusInternalServerError)
	ErrPayloadTooBig = NewError("rest_upload_too_large", "Request body exceeds the upload limit", http.StatusRequestEntityTooLarge)
)

// Host errors carry the code of the failing collaborator.
var (
	ErrDatabase    = NewError("db_error", "A database error occurred.", http.StatusInternalServerError)
	ErrStorage     = NewError("storage_error", "A filesystem error occurred.", http.StatusInternalServerError)
	ErrHTTPRequest = NewError("http_request_failed", "The remote request failed.", http.StatusInternalServerError)
)

// Host wraps err with base unless err already carries an *Error or is nil.
func Host(base *Error, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return base.Wrap(err)
}

// NewError creates an Error. An empty code defaults to "error" and a zero status to 400.
func NewError(code, message string, status int) *Error {
	if code == "" {
		code = "error"
	}
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Error{Code: code, Message: message, Status: status}
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Withf returns a copy of e with a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Missing reports a required parameter that was not supplied.
func Missing(name string) *Error {
	return ErrMissingParam.Withf("Missing parameter(s): %s", name)
}

// Invalid reports a parameter that failed validation.
func Invalid(name, reason string) *Error {
	return ErrInvalidParam.Withf("Invalid parameter(s): %s (%s)", name, reason)
}

// AsError returns the *Error in err's chain, or wraps err with a code derived from status.
func AsError(err error, status int) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{
		Code:    codeForStatus(status),
		Message: messageFor(err, status),
		Status:  status,
		Err:     err,
	}
}

func (e *Error) envelope() map[string]any {
	return map[string]any{
		"code":    e.Code,
		"message": e.Message,
		"data":    map[string]int{"status": e.Status},
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "rest_forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "error"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "error"
}

func messageFor(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	if err == nil {
		return http.StatusText(status)
	}
	return err.Error()
}
