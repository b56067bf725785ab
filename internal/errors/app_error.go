package errors

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Detail != "":
		return e.Detail
	default:
		return e.Code
	}
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeNetwork        = "NETWORK_ERROR"
	ErrCodeBackend        = "BACKEND_ERROR"
	ErrCodeDuplicateEntry = "DUPLICATE_ENTRY"
	ErrCodeStorage        = "STORAGE_ERROR"
)

// Fixed user-facing messages for failures without a server-provided message.
const (
	MsgProductsUnavailable = "Could not fetch products. Check that the backend is running, reachable and returns valid JSON."
	MsgCartUnavailable     = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
	MsgBackendUnavailable  = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

// NetworkError covers every failure where no usable response came back.
func NetworkError(message string) *AppError {
	return NewAppError(ErrCodeNetwork, message, 0)
}

// BackendError carries the status and the message the backend reported.
func BackendError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeBackend, message, statusCode)
}

func DuplicateEntryError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateEntry, message, http.StatusConflict)
}

func StorageError(message string) *AppError {
	return NewAppError(ErrCodeStorage, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}

// UserMessage picks the text shown to the user: the message of a validation
// or backend-reported failure, the fallback for everything else.
func UserMessage(err error, fallback string) string {
	appErr, ok := IsAppError(err)
	if !ok || appErr.Message == "" {
		return fallback
	}

	switch appErr.Code {
	case ErrCodeBackend, ErrCodeNotFound, ErrCodeValidation:
		return appErr.Message
	default:
		return fallback
	}
}
