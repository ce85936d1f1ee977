package dto

import "github.com/shopspring/decimal"

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=100"`
	Balance  decimal.Decimal `json:"balance"`
	Status   string          `json:"status" binding:"omitempty,oneof=ACTIVE FROZEN CLOSED"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// UpdateWalletStatusRequest is the request body for lifecycle transitions.
type UpdateWalletStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE FROZEN CLOSED"`
}

// TransactRequest is the request body for posting a movement. Amount is a
// signed decimal: positive credits, negative debits. Zero and magnitude
// bounds are enforced by the ledger, not here, so the caller gets the
// ledger's error code rather than a generic validation failure.
type TransactRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required,min=1,max=255"`
	ReferenceID string          `json:"reference_id" binding:"required,min=1,max=50,safe_id"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// TransactionResponse is the response body for a ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	WalletID    string  `json:"wallet_id"`
	Amount      string  `json:"amount"`
	Balance     string  `json:"balance"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	ReferenceID string  `json:"reference_id"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

// WalletResponse is the response body for a wallet.
type WalletResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Balance      string                `json:"balance"`
	Status       string                `json:"status"`
	Metadata     map[string]any        `json:"metadata,omitempty"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

// CreateWalletResponse pairs the new wallet with the id of its initial
// ledger entry, when one was written.
type CreateWalletResponse struct {
	Wallet               WalletResponse `json:"wallet"`
	InitialTransactionID *string        `json:"initial_transaction_id,omitempty"`
}

// TransactResponse is the response body for a committed movement.
type TransactResponse struct {
	TransactionID string `json:"transaction_id"`
	Balance       string `json:"balance"`
	Idempotent    bool   `json:"idempotent"`
}

// TransactionListResponse wraps a paginated slice of a wallet's history.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int64                 `json:"total"`
	Skip  int                   `json:"skip"`
	Limit int                   `json:"limit"`
}
