package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	defaultMaxPageLimit   = 100
)

// LedgerServiceImpl implements ports.LedgerService: the balance-mutation
// protocol, ledger queries, and the FROZEN-gated deletion paths.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	idempCache ports.IdempotencyCache
	transactor ports.DBTransactor
	maxAmount  decimal.Decimal
	maxLimit   int
	idempTTL   time.Duration
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *LedgerServiceImpl {
	maxAmount := domain.MaxAmount
	if cfg.MaxAmount != "" {
		parsed, err := decimal.NewFromString(cfg.MaxAmount)
		if err != nil {
			log.Warn().Str("max_amount", cfg.MaxAmount).Msg("unparsable ledger max amount, using default")
		} else {
			maxAmount = parsed
		}
	}

	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = defaultMaxPageLimit
	}

	idempTTL := cfg.IdempotencyTTL
	if idempTTL <= 0 {
		idempTTL = defaultIdempotencyTTL
	}

	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		idempCache: idempCache,
		transactor: transactor,
		maxAmount:  maxAmount,
		maxLimit:   maxLimit,
		idempTTL:   idempTTL,
		log:        log,
	}
}

// Transact posts one signed movement against a wallet. The whole protocol
// runs as a single unit of work: replay check, exclusive wallet lock,
// lifecycle and balance gates, balance write plus paired ledger row.
func (s *LedgerServiceImpl) Transact(ctx context.Context, req ports.TransactRequest) (*ports.TransactResult, error) {
	amount := domain.RoundMoney(req.Amount)
	if amount.IsZero() {
		return nil, apperror.ErrInvalidAmount(domain.MoneyString(amount))
	}
	if !domain.AmountInBounds(amount, s.maxAmount) {
		return nil, apperror.ErrInvalidAmount(domain.MoneyString(amount))
	}

	// Fast path: cached committed entry for this reference (best effort).
	cached, err := s.idempCache.Get(ctx, req.ReferenceID)
	if err != nil {
		s.log.Warn().Err(err).Str("reference_id", req.ReferenceID).
			Msg("idempotency cache check failed, falling through to storage")
	}
	if cached != nil {
		prior := &domain.Transaction{}
		if err := json.Unmarshal(cached, prior); err == nil {
			return s.resolveReplay(prior, req.WalletID, amount)
		}
		s.log.Warn().Str("reference_id", req.ReferenceID).Msg("discarding unreadable idempotency cache entry")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Authoritative replay check, inside the unit of work.
	existing, err := s.txRepo.GetByReferenceTx(ctx, dbTx, req.ReferenceID)
	if err != nil {
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("reference check: %w", err))
	}
	if existing != nil {
		return s.resolveReplay(existing, req.WalletID, amount)
	}

	// Exclusive wallet lock: concurrent movements on this wallet serialize
	// here; other wallets are unaffected.
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(req.WalletID.String())
	}
	if !wallet.CanTransact() {
		return nil, apperror.ErrInvalidWalletStatus(string(wallet.Status))
	}

	newBalance := wallet.Balance.Add(amount)
	if newBalance.IsNegative() {
		return nil, apperror.ErrInsufficientBalance(
			domain.MoneyString(wallet.Balance),
			domain.MoneyString(amount),
		)
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("update balance: %w", err))
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		Amount:      amount,
		Balance:     newBalance,
		Description: req.Description,
		Type:        domain.TypeForAmount(amount),
		ReferenceID: req.ReferenceID,
		Status:      domain.TransactionStatusCompleted,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		ProcessedAt: &now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			// Lost the unique-index race to a concurrent duplicate: resolve
			// against the row that won.
			_ = dbTx.Rollback(ctx)
			return s.resolveReferenceRace(ctx, req.ReferenceID, req.WalletID, amount)
		}
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrTransactionFailed("Transaction processing failed", fmt.Errorf("commit tx: %w", err))
	}

	s.cacheCommitted(ctx, txn)

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("amount", domain.MoneyString(amount)).
		Str("balance", domain.MoneyString(newBalance)).
		Msg("transaction committed")

	return &ports.TransactResult{
		Balance:       newBalance,
		TransactionID: txn.ID,
		Idempotent:    false,
	}, nil
}

// resolveReplay decides what a reused reference id means: the verbatim
// retry gets the prior committed result, anything else is a conflict.
func (s *LedgerServiceImpl) resolveReplay(prior *domain.Transaction, walletID uuid.UUID, amount decimal.Decimal) (*ports.TransactResult, error) {
	if prior.WalletID != walletID {
		return nil, apperror.ErrDuplicateReferenceID(prior.ReferenceID, "already used for a different wallet")
	}
	if !prior.Amount.Equal(amount) {
		return nil, apperror.ErrDuplicateReferenceID(prior.ReferenceID, "already used with a different amount")
	}
	return &ports.TransactResult{
		Balance:       prior.Balance,
		TransactionID: prior.ID,
		Idempotent:    true,
	}, nil
}

func (s *LedgerServiceImpl) resolveReferenceRace(ctx context.Context, referenceID string, walletID uuid.UUID, amount decimal.Decimal) (*ports.TransactResult, error) {
	winner, err := s.txRepo.GetByReference(ctx, referenceID)
	if err != nil || winner == nil {
		return nil, apperror.ErrDuplicateReferenceID(referenceID, "already exists")
	}
	return s.resolveReplay(winner, walletID, amount)
}

// cacheCommitted stores the committed entry for the fast-path replay
// check. Best effort: a cache failure never fails the transaction.
func (s *LedgerServiceImpl) cacheCommitted(ctx context.Context, txn *domain.Transaction) {
	payload, err := json.Marshal(txn)
	if err != nil {
		return
	}
	if err := s.idempCache.Set(ctx, txn.ReferenceID, payload, s.idempTTL); err != nil {
		s.log.Warn().Err(err).Str("reference_id", txn.ReferenceID).Msg("failed to cache committed transaction")
	}
}

// ListTransactions returns one page of a wallet's history, newest first,
// plus the wallet's total entry count.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, walletID uuid.UUID, skip, limit int) ([]domain.Transaction, int64, error) {
	if skip < 0 || limit < 1 || limit > s.maxLimit {
		return nil, 0, apperror.ErrInvalidPagination(map[string]any{
			"skip":      skip,
			"limit":     limit,
			"max_limit": s.maxLimit,
		})
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, 0, apperror.ErrWalletNotFound(walletID.String())
	}

	txns, total, err := s.txRepo.ListByWallet(ctx, walletID, skip, limit)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// ExportCSV renders a wallet's full history as delimited text:
// Date, Amount, Type, Description, Balance.
func (s *LedgerServiceImpl) ExportCSV(ctx context.Context, walletID uuid.UUID) ([]byte, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(walletID.String())
	}

	txns, err := s.txRepo.ListAllByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Amount", "Type", "Description", "Balance"})
	for i := range txns {
		t := &txns[i]
		_ = w.Write([]string{
			t.CreatedAt.UTC().Format(time.RFC3339),
			domain.MoneyString(t.Amount),
			string(t.Type),
			t.Description,
			domain.MoneyString(t.Balance),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("render csv: %w", err))
	}
	return buf.Bytes(), nil
}

// DeleteTransaction removes one ledger entry. The owning wallet must be
// FROZEN. This is a corrective maintenance operation, not a reversal: the
// wallet balance is deliberately left untouched.
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transaction", fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return apperror.ErrTransactionNotFound(id.String())
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transaction", fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, txn.WalletID)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transaction", fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrWalletNotFound(txn.WalletID.String())
	}
	if wallet.Status != domain.WalletStatusFrozen {
		return apperror.ErrWalletNotFrozen()
	}

	if err := s.txRepo.Delete(ctx, dbTx, id); err != nil {
		if errors.Is(err, ports.ErrTransactionNotFound) {
			// A concurrent deletion won the race after our initial read.
			return apperror.ErrTransactionNotFound(id.String())
		}
		return apperror.ErrTransactionFailed("Failed to delete transaction", fmt.Errorf("delete transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transaction", fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("transaction_id", id.String()).
		Str("wallet_id", wallet.ID.String()).
		Msg("transaction deleted")
	return nil
}

// DeleteAllTransactions wipes a wallet's entire history and resets its
// balance to zero in the same unit of work. The wallet must be FROZEN.
func (s *LedgerServiceImpl) DeleteAllTransactions(ctx context.Context, walletID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transactions", fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transactions", fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrWalletNotFound(walletID.String())
	}
	if wallet.Status != domain.WalletStatusFrozen {
		return apperror.ErrWalletNotFrozen()
	}

	removed, err := s.txRepo.DeleteAllByWallet(ctx, dbTx, walletID)
	if err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transactions", fmt.Errorf("delete transactions: %w", err))
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, walletID, decimal.Zero); err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transactions", fmt.Errorf("reset balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrTransactionFailed("Failed to delete transactions", fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", walletID.String()).
		Int64("removed", removed).
		Msg("wallet history wiped, balance reset")
	return nil
}
