package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdempotencyCache is the best-effort fast path for replay detection:
// committed transaction JSON keyed by reference id. Misses and errors fall
// through to the authoritative in-transaction check.
type IdempotencyCache interface {
	Get(ctx context.Context, referenceID string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, referenceID string, value []byte, ttl time.Duration) error
}

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}

// --- Service Ports (Business Logic) ---

// WalletService defines wallet lifecycle operations.
type WalletService interface {
	Create(ctx context.Context, req CreateWalletRequest) (*CreateWalletResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateWalletRequest holds validated input for wallet setup.
type CreateWalletRequest struct {
	Name     string
	Balance  decimal.Decimal
	Status   domain.WalletStatus // empty = ACTIVE
	Metadata map[string]any
}

// CreateWalletResult pairs the new wallet with the id of its initial
// ledger entry (uuid.Nil when the initial balance was zero).
type CreateWalletResult struct {
	Wallet               *domain.Wallet
	InitialTransactionID uuid.UUID
}

// LedgerService defines the balance-mutation protocol and ledger queries.
type LedgerService interface {
	Transact(ctx context.Context, req TransactRequest) (*TransactResult, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, skip, limit int) ([]domain.Transaction, int64, error)
	ExportCSV(ctx context.Context, walletID uuid.UUID) ([]byte, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	DeleteAllTransactions(ctx context.Context, walletID uuid.UUID) error
}

// TransactRequest holds validated input for posting a movement.
type TransactRequest struct {
	WalletID    uuid.UUID
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	Metadata    map[string]any
}

// TransactResult is the outcome of a committed (or replayed) movement.
type TransactResult struct {
	Balance       decimal.Decimal
	TransactionID uuid.UUID
	Idempotent    bool
}
