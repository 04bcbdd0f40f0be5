package core

import (
	"errors"

	"github.com/roomcast/roomcast-server/internal/store"
)

// Error codes for domain errors.
const (
	ErrCodeValidation  = "validation_error"
	ErrCodeNotFound    = "not_found"
	ErrCodeStorage     = "storage_unavailable"
	ErrCodeBadRequest  = "bad_request"
	ErrCodeUnsupported = "unsupported_file_type"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// validationError builds a caller's-fault error that is never retried.
func validationError(msg string) *CoreError {
	return coreError(ErrCodeValidation, msg)
}

// errorFrom classifies an error into a CoreError for transport mapping.
func errorFrom(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return coreError(ErrCodeNotFound, "message not found")
	case errors.Is(err, store.ErrInvalid):
		return validationError(err.Error())
	case errors.Is(err, store.ErrUnavailable):
		return coreError(ErrCodeStorage, "storage unavailable")
	default:
		return coreError(ErrCodeStorage, err.Error())
	}
}

// ErrorCode returns the domain error code for err, or storage_unavailable
// when the error carries no code.
func ErrorCode(err error) string {
	return errorFrom(err).Code
}
