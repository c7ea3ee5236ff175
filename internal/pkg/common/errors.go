package common

import (
	"errors"
	"net/http"
)

// ErrorResponse is the JSON error body of the ops HTTP API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError carries a stable code, a safe message and the wrapped cause.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches two CustomErrors by code so predefined errors work as sentinels.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError builds a CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap returns a copy of e with err attached as the cause.
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// CodeOf returns the code of the first CustomError in err's chain.
func CodeOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"

	ErrCodeAIService           = "AI_SERVICE_ERROR"
	ErrCodeAIUnauthorized      = "AI_UNAUTHORIZED"
	ErrCodeAIInsufficientFunds = "AI_INSUFFICIENT_BALANCE"
	ErrCodeAIEmptyResponse     = "AI_EMPTY_RESPONSE"
	ErrCodeStore               = "STORE_ERROR"
)

var (
	ErrAIServiceError     = NewError(ErrCodeAIService, "AI service error", http.StatusServiceUnavailable, nil)
	ErrAIUnauthorized     = NewError(ErrCodeAIUnauthorized, "AI service rejected credentials", http.StatusServiceUnavailable, nil)
	ErrAIInsufficientFund = NewError(ErrCodeAIInsufficientFunds, "AI service balance exhausted", http.StatusServiceUnavailable, nil)
	ErrAIEmptyResponse    = NewError(ErrCodeAIEmptyResponse, "AI service returned no content", http.StatusServiceUnavailable, nil)
	ErrStoreUnavailable   = NewError(ErrCodeStore, "recipe store unavailable", http.StatusServiceUnavailable, nil)
)
