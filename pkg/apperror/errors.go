package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
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

// WithDetails attaches structured diagnostic detail and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// ---- Wallet lifecycle ----

func ErrWalletNotFound(walletID string) *AppError {
	return New("WALLET_NOT_FOUND", fmt.Sprintf("Wallet with ID %s not found", walletID), http.StatusNotFound)
}

func ErrInvalidWalletStatus(status string) *AppError {
	return New("INVALID_WALLET_STATUS", fmt.Sprintf("Cannot perform operation on wallet with status: %s", status), http.StatusBadRequest)
}

func ErrWalletNotFrozen() *AppError {
	return New("WALLET_NOT_FROZEN", "Wallet must be frozen before deleting transactions", http.StatusBadRequest)
}

func ErrDuplicateWalletName(name string) *AppError {
	return New("DUPLICATE_WALLET_NAME", fmt.Sprintf("Wallet name %q already exists", name), http.StatusConflict)
}

func ErrWalletHasTransactions() *AppError {
	return New("WALLET_HAS_TRANSACTIONS", "Cannot delete wallet with existing transactions", http.StatusBadRequest)
}

// ---- Ledger ----

func ErrTransactionNotFound(id string) *AppError {
	return New("TRANSACTION_NOT_FOUND", fmt.Sprintf("Transaction with ID %s not found", id), http.StatusNotFound)
}

func ErrInvalidAmount(amount string) *AppError {
	return New("INVALID_TRANSACTION_AMOUNT", fmt.Sprintf("Invalid transaction amount: %s", amount), http.StatusBadRequest)
}

func ErrInsufficientBalance(currentBalance, requestedAmount string) *AppError {
	return New("INSUFFICIENT_BALANCE", "Insufficient balance for this transaction", http.StatusBadRequest).
		WithDetails(map[string]any{
			"current_balance":  currentBalance,
			"requested_amount": requestedAmount,
		})
}

func ErrDuplicateReferenceID(referenceID, reason string) *AppError {
	return New("DUPLICATE_REFERENCE_ID", fmt.Sprintf("Reference ID %s %s", referenceID, reason), http.StatusConflict)
}

func ErrInvalidPagination(details map[string]any) *AppError {
	return New("INVALID_PAGINATION_PARAMS", "Invalid pagination parameters", http.StatusBadRequest).
		WithDetails(details)
}

// ---- System ----

// ErrTransactionFailed is the catch-all for unexpected storage/runtime
// failures inside a unit of work. The original cause stays wrapped and is
// never exposed to the client.
func ErrTransactionFailed(message string, err error) *AppError {
	return Wrap("TRANSACTION_FAILED", message, http.StatusInternalServerError, err)
}

// InternalError wraps an unexpected error as TRANSACTION_FAILED.
func InternalError(err error) *AppError {
	return ErrTransactionFailed("Internal server error", err)
}

// Validation returns a boundary validation error.
func Validation(message string) *AppError {
	return New("VALIDATION_ERROR", message, http.StatusBadRequest)
}
