package common

import (
	"errors"
	"net/http"
)

// AppError carries the wire-level shape of a failure: the stable code
// clients branch on, the HTTP status, and a safe message. The wrapped
// error keeps the original cause for logs and errors.Is checks.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFoundError marks a missing resource.
func NotFoundError(code string, err error) *AppError {
	return &AppError{Code: code, Status: http.StatusNotFound, Message: err.Error(), Err: err}
}

// ConflictError marks a request that clashes with current state, such as
// an illegal lifecycle move or an exhausted redemption limit.
func ConflictError(code string, err error) *AppError {
	return &AppError{Code: code, Status: http.StatusConflict, Message: err.Error(), Err: err}
}

// BadRequestError marks a request the caller can correct.
func BadRequestError(code string, err error) *AppError {
	return &AppError{Code: code, Status: http.StatusBadRequest, Message: err.Error(), Err: err}
}

// AsAppError resolves the AppError in err's chain, falling back to an
// opaque internal error so unexpected causes never leak detail.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: "INTERNAL", Status: http.StatusInternalServerError, Message: "unexpected error", Err: err}
}
