package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// Create provisions a wallet. A positive opening balance also writes the
// paired "Initial setup" ledger entry in the same unit of work, so the
// wallet never exists with money its history cannot explain.
func (s *WalletServiceImpl) Create(ctx context.Context, req ports.CreateWalletRequest) (*ports.CreateWalletResult, error) {
	status := req.Status
	if status == "" {
		status = domain.WalletStatusActive
	}
	if !status.Valid() {
		return nil, apperror.ErrInvalidWalletStatus(string(status))
	}

	balance := domain.RoundMoney(req.Balance)
	if balance.IsNegative() {
		return nil, apperror.Validation("initial balance must not be negative")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		Name:      req.Name,
		Balance:   balance,
		Status:    status,
		Metadata:  req.Metadata,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		if errors.Is(err, ports.ErrDuplicateWalletName) {
			return nil, apperror.ErrDuplicateWalletName(req.Name)
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	initialTxID := uuid.Nil
	if balance.IsPositive() {
		txn := &domain.Transaction{
			ID:          uuid.New(),
			WalletID:    wallet.ID,
			Amount:      balance,
			Balance:     balance,
			Description: "Initial setup",
			Type:        domain.TransactionTypeCredit,
			ReferenceID: domain.InitialReferenceID(wallet.ID),
			Status:      domain.TransactionStatusCompleted,
			CreatedAt:   now,
			ProcessedAt: &now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create initial transaction: %w", err))
		}
		initialTxID = txn.ID
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("name", wallet.Name).
		Str("balance", domain.MoneyString(balance)).
		Msg("wallet created")

	return &ports.CreateWalletResult{
		Wallet:               wallet,
		InitialTransactionID: initialTxID,
	}, nil
}

// Get returns a wallet with its full transaction history attached.
func (s *WalletServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(id.String())
	}

	txns, err := s.txRepo.ListAllByWallet(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	wallet.Transactions = txns
	return wallet, nil
}

// List returns all wallets, newest first.
func (s *WalletServiceImpl) List(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// UpdateStatus moves a wallet through its lifecycle. Any transition
// between the known statuses is allowed.
func (s *WalletServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error) {
	if !status.Valid() {
		return nil, apperror.ErrInvalidWalletStatus(string(status))
	}

	wallet, err := s.walletRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(id.String())
	}

	s.log.Info().
		Str("wallet_id", id.String()).
		Str("status", string(status)).
		Msg("wallet status updated")
	return wallet, nil
}

// Delete removes a wallet. Wallets with surviving ledger entries cannot
// be deleted; wipe the history first. The emptiness check and the delete
// run under the wallet's row lock, so a movement committing concurrently
// cannot slip between them.
func (s *WalletServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrWalletNotFound(id.String())
	}

	count, err := s.txRepo.CountByWallet(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("count transactions: %w", err))
	}
	if count > 0 {
		return apperror.ErrWalletHasTransactions()
	}

	if err := s.walletRepo.Delete(ctx, dbTx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("wallet_id", id.String()).Msg("wallet deleted")
	return nil
}
