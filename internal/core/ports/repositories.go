package ports

import (
	"context"
	"errors"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Storage-level constraint violations, surfaced as sentinels so services
// can translate them without knowing the storage engine.
var (
	ErrDuplicateWalletName = errors.New("wallet name already exists")
	ErrDuplicateReference  = errors.New("reference id already exists")
	// ErrTransactionNotFound reports a delete that matched no row, so a
	// concurrent removal maps to not-found instead of an internal error.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside a unit of work; GetByIDForUpdate
// additionally takes the wallet's exclusive row lock.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	// UpdateBalance writes the new balance and bumps the version counter.
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error)
	// Delete runs inside a unit of work so the caller can hold the row
	// lock across its emptiness check.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// TransactionRepository defines persistence operations for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// GetByReference looks up a committed entry by its globally unique
	// reference id. GetByReferenceTx is the same read inside a unit of work.
	GetByReference(ctx context.Context, referenceID string) (*domain.Transaction, error)
	GetByReferenceTx(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.Transaction, error)
	// ListByWallet returns one page ordered by created_at descending plus
	// the total entry count for the wallet.
	ListByWallet(ctx context.Context, walletID uuid.UUID, skip, limit int) ([]domain.Transaction, int64, error)
	ListAllByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	DeleteAllByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
