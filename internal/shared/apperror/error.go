package apperror

import (
	"errors"
	"fmt"
)

// AppError is the single error currency between services and the HTTP
// layer. Handlers never inspect raw errors; they go through ToHTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     map[string]string // field -> violation, set for validation errors
	Err        error             // wrapped cause, never shown to callers
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewValidation reports every violated field at once, not just the first.
func NewValidation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: 400,
		Fields:     fields,
	}
}

// AsAppError unwraps err to an *AppError, or returns nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
