package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, wallet_id, amount, balance, description, type, reference_id, status, metadata, created_at, processed_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new ledger entry within a unit of work.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, amount, balance, description, type,
		reference_id, status, metadata, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Amount, t.Balance, t.Description, t.Type,
		t.ReferenceID, t.Status, t.Metadata, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "transactions_reference_id_key") {
			return ports.ErrDuplicateReference
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a ledger entry by its globally unique reference id.
func (r *TransactionRepo) GetByReference(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference_id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, referenceID))
}

// GetByReferenceTx is GetByReference inside a unit of work, so the replay
// check observes the transaction's own snapshot.
func (r *TransactionRepo) GetByReferenceTx(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference_id = $1`
	return scanTransaction(tx.QueryRow(ctx, query, referenceID))
}

// ListByWallet fetches one page of a wallet's entries, newest first, plus
// the wallet's total entry count.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, skip, limit int) ([]domain.Transaction, int64, error) {
	total, err := r.CountByWallet(ctx, walletID)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListAllByWallet fetches a wallet's full history, newest first.
func (r *TransactionRepo) ListAllByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE wallet_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// CountByWallet returns the number of entries a wallet owns.
func (r *TransactionRepo) CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`, walletID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

// Delete removes one ledger entry within a unit of work.
func (r *TransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrTransactionNotFound
	}
	return nil
}

// DeleteAllByWallet removes every entry a wallet owns within a unit of
// work and returns how many were removed.
func (r *TransactionRepo) DeleteAllByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE wallet_id = $1`, walletID)
	if err != nil {
		return 0, fmt.Errorf("delete wallet transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
// Returns nil, nil when no row matched.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.WalletID, &t.Amount, &t.Balance, &t.Description, &t.Type,
		&t.ReferenceID, &t.Status, &t.Metadata, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.Amount, &t.Balance, &t.Description, &t.Type,
			&t.ReferenceID, &t.Status, &t.Metadata, &t.CreatedAt, &t.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
