package insured

import (
	"errors"
	"sort"
	"strings"

	"github.com/redmonkez12/insured-api/internal/httputil"
)

var (
	ErrNotFound            = errors.New("insured not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateNationalID = errors.New("cpf already exists")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("e-mail or password are incorrect")

	ErrBothPasswordFieldsRequired   = errors.New("password and password confirmation need to be both informed")
	ErrPasswordConfirmationMismatch = errors.New("password and password confirmation need to be the same")
)

const NonFieldErrors = httputil.NonFieldErrors

// ValidationError carries one message per invalid field
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func fieldError(field, message string) *ValidationError {
	e := newValidationError()
	e.Add(field, message)
	return e
}

// Add records message for field, keeping the first message reported.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
