package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	AccountNotFound    ErrorCode = "account_not_found"
	DuplicateAccount   ErrorCode = "duplicate_account"
	InvalidAmount      ErrorCode = "invalid_amount"
	InvalidInput       ErrorCode = "invalid_input"
	Unauthorized       ErrorCode = "unauthorized"
	StorageUnavailable ErrorCode = "storage_unavailable"
	InternalError      ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps an error code to the status returned to callers.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound:
		return http.StatusNotFound
	case DuplicateAccount:
		return http.StatusConflict
	case InvalidAmount, InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrDuplicateAccount = NewAppError(DuplicateAccount, "account already exists")
	ErrInvalidAmount    = NewAppError(InvalidAmount, "amount must be a non-negative decimal")
	ErrInvalidAccountID = NewAppError(InvalidInput, "account ID must be a valid UUID")
)
