package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Reasons    []string `json:"reasons,omitempty"` // Field-level validation reasons
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if len(e.Reasons) > 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, strings.Join(e.Reasons, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error with a single reason.
func Validation(message string) *AppError {
	return ValidationList([]string{message})
}

// ValidationList returns a VAL_001 error carrying field-level reasons.
func ValidationList(reasons []string) *AppError {
	return &AppError{
		Code:       "VAL_001",
		Message:    "Validation failed",
		Reasons:    reasons,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrCardRejected is returned when a well-formed card number matches no
// sandbox test pattern. No transaction is created.
func ErrCardRejected() *AppError {
	return New("VAL_002", "Card rejected by sandbox policy", http.StatusBadRequest)
}

// ---- Transaction Lifecycle (TRX) ----

func ErrTransactionNotFound() *AppError {
	return New("TRX_001", "Transaction not found", http.StatusNotFound)
}

func ErrPublicKeyMismatch() *AppError {
	return New("TRX_002", "Public key does not match transaction", http.StatusForbidden)
}

func ErrInvalidChallengeCode() *AppError {
	return New("TRX_003", "Invalid challenge code", http.StatusBadRequest)
}

func ErrTransactionFinalized() *AppError {
	return New("TRX_004", "Transaction already finalized", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
