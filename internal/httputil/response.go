package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// NonFieldErrors is the Fields key for errors not bound to a single input
const NonFieldErrors = "non_field_errors"

// MaxBodyBytes caps every JSON request body
const MaxBodyBytes = 1 << 20

var ErrBodyTooLarge = errors.New("request body too large")

// ErrorResponse is the body of every error reply.
// Fields holds per-field messages for validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Encoding failures are logged since the status line is already written.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondError sends a JSON error response with a machine-readable error code.
func RespondError(w http.ResponseWriter, message, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondNonField sends an error that is not tied to a single input field,
// repeating the message under non_field_errors.
func RespondNonField(w http.ResponseWriter, message, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{
		Error:  message,
		Code:   code,
		Fields: map[string]string{NonFieldErrors: message},
	}, statusCode)
}

// RespondFields sends a 400 carrying field-scoped validation messages
func RespondFields(w http.ResponseWriter, fields map[string]string) {
	RespondJSON(w, ErrorResponse{
		Error:  "validation failed",
		Code:   CodeValidationFailed,
		Fields: fields,
	}, http.StatusBadRequest)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// A body cut off by http.MaxBytesReader yields ErrBodyTooLarge.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return err
	}
	return nil
}

// RespondDecodeError answers a DecodeJSON failure
func RespondDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		RespondError(w, err.Error(), CodeRequestTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	RespondError(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
}
