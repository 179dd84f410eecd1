package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is what actually crosses the wire for a failed request.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP converts any error into its transport shape. Errors that are
// not AppErrors are collapsed into a generic 500 so that store and
// driver failures never leak detail to the caller.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		var details any
		if len(appErr.Fields) > 0 {
			details = appErr.Fields
		}
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
