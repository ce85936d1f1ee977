package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s WalletStatus) Valid() bool {
	switch s {
	case WalletStatusActive, WalletStatusFrozen, WalletStatusClosed:
		return true
	}
	return false
}

// Wallet holds a non-negative monetary balance and a status controlling
// which operations are legal. Version increments on every mutation.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Status    WalletStatus    `json:"status"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Transactions is populated only on single-wallet reads.
	Transactions []Transaction `json:"transactions,omitempty"`
}

// CanTransact reports whether the wallet accepts new monetary movements.
func (w *Wallet) CanTransact() bool {
	return w.Status == WalletStatusActive
}

// InitialReferenceID is the deterministic reference id of the ledger entry
// paired with wallet creation.
func InitialReferenceID(walletID uuid.UUID) string {
	return "INITIAL_SETUP_" + walletID.String()
}
