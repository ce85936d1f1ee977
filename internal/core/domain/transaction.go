package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a money movement, derived from the
// sign of its amount.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// TransactionStatus is the lifecycle state of a ledger entry. The engine
// only emits COMPLETED; the other values are reserved for future flows.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// Transaction is an immutable, uniquely-referenced record of one signed
// balance movement. Balance is the wallet balance snapshot immediately
// after this entry was applied.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	WalletID    uuid.UUID         `json:"wallet_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Balance     decimal.Decimal   `json:"balance"`
	Description string            `json:"description"`
	Type        TransactionType   `json:"type"`
	ReferenceID string            `json:"reference_id"`
	Status      TransactionStatus `json:"status"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// TypeForAmount derives CREDIT for positive amounts and DEBIT for negative.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsPositive() {
		return TransactionTypeCredit
	}
	return TransactionTypeDebit
}
