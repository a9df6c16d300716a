package discount

import "net/http"

type ErrorCode string

const (
	ErrDiscountNotFound     ErrorCode = "DISCOUNT_NOT_FOUND"
	ErrDiscountExpired      ErrorCode = "DISCOUNT_EXPIRED"
	ErrDiscountInvalidInput ErrorCode = "DISCOUNT_INVALID_INPUT"
	ErrDiscountCodeTaken    ErrorCode = "DISCOUNT_CODE_TAKEN"
	ErrDiscountStoreFailed  ErrorCode = "DISCOUNT_STORE_FAILED"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, StatusCode: status, Details: details}
}

func ValidationError(code ErrorCode, message string, details map[string]any) *Error {
	return newError(code, message, http.StatusBadRequest, details)
}

func NotFoundError(message string) *Error {
	return newError(ErrDiscountNotFound, message, http.StatusNotFound, nil)
}

func StoreError(message string) *Error {
	return newError(ErrDiscountStoreFailed, message, http.StatusInternalServerError, nil)
}
