package core

import "github.com/pkg/errors"

// ValidationError carries per-field messages for a request the API rejected.
// The error handler renders it as a field → message JSON map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// FieldError ties a message to one struct field.
type FieldError struct {
	Field string
	Error string
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an integrity fault the process cannot recover from.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

// IsShutdown reports whether err (or its cause) asks for a graceful stop.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
