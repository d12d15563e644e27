// Package handlers provides HTTP response and request utilities for JSON APIs.
// Errors are written as {"code", "message", "data": {"status"}} envelopes.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes an error envelope.
// When err carries an *Error its code and status are used; otherwise status is
// the fallback and the code is derived from it.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	e := AsError(err, status)

	if e.Status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "code", e.Code, "status", e.Status)
	} else {
		logger.Warn("request rejected", "error", err, "code", e.Code, "status", e.Status)
	}

	RespondJSON(w, e.Status, e.envelope())
}

// DecodeJSON decodes the request body into v. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return ErrInvalidJSON.Wrap(err)
	}
	return nil
}
