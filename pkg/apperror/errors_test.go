package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("INSUFFICIENT_BALANCE", "Insufficient balance", http.StatusBadRequest),
			expected: "[INSUFFICIENT_BALANCE] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("TRANSACTION_FAILED", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[TRANSACTION_FAILED] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("TRANSACTION_FAILED", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WALLET_NOT_FOUND", "test", http.StatusNotFound)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"WalletNotFound", ErrWalletNotFound("abc"), "WALLET_NOT_FOUND", 404},
		{"InvalidWalletStatus", ErrInvalidWalletStatus("FROZEN"), "INVALID_WALLET_STATUS", 400},
		{"WalletNotFrozen", ErrWalletNotFrozen(), "WALLET_NOT_FROZEN", 400},
		{"DuplicateWalletName", ErrDuplicateWalletName("main"), "DUPLICATE_WALLET_NAME", 409},
		{"WalletHasTransactions", ErrWalletHasTransactions(), "WALLET_HAS_TRANSACTIONS", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"TransactionNotFound", ErrTransactionNotFound("abc"), "TRANSACTION_NOT_FOUND", 404},
		{"InvalidAmount", ErrInvalidAmount("0"), "INVALID_TRANSACTION_AMOUNT", 400},
		{"InsufficientBalance", ErrInsufficientBalance("5.0000", "-5.0001"), "INSUFFICIENT_BALANCE", 400},
		{"DuplicateReferenceID", ErrDuplicateReferenceID("R1", "already exists"), "DUPLICATE_REFERENCE_ID", 409},
		{"InvalidPagination", ErrInvalidPagination(nil), "INVALID_PAGINATION_PARAMS", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInsufficientBalanceDetails(t *testing.T) {
	err := ErrInsufficientBalance("5.0000", "-5.0001")
	assert.Equal(t, "5.0000", err.Details["current_balance"])
	assert.Equal(t, "-5.0001", err.Details["requested_amount"])
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	txErr := ErrTransactionFailed("Transaction processing failed", inner)
	assert.Equal(t, "TRANSACTION_FAILED", txErr.Code)
	assert.Equal(t, 500, txErr.HTTPStatus)
	assert.True(t, errors.Is(txErr, inner))

	intErr := InternalError(inner)
	assert.Equal(t, "TRANSACTION_FAILED", intErr.Code)

	valErr := Validation("name is required")
	assert.Equal(t, "VALIDATION_ERROR", valErr.Code)
	assert.Equal(t, 400, valErr.HTTPStatus)
}
