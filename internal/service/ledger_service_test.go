package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc        *LedgerServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	idempCache *mocks.MockIdempotencyCache
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		idempCache: mocks.NewMockIdempotencyCache(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewLedgerService(
		d.walletRepo, d.txRepo, d.idempCache, d.transactor,
		config.LedgerConfig{MaxAmount: "999999999", MaxLimit: 100, IdempotencyTTL: time.Hour},
		zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// decEq matches decimal.Decimal by value, not representation.
type decEq struct{ want decimal.Decimal }

func (m decEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}
func (m decEq) String() string { return "decimal == " + m.want.String() }

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func activeWallet(id uuid.UUID, balance string) *domain.Wallet {
	return &domain.Wallet{
		ID:      id,
		Name:    "Ops float",
		Balance: money(balance),
		Status:  domain.WalletStatusActive,
		Version: 3,
	}
}

// ==================== Transact Tests ====================

func TestLedgerService_Transact_CreditSuccess(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	req := ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("50"),
		Description: "top up",
		ReferenceID: "REF-001",
	}

	d.idempCache.EXPECT().Get(ctx, "REF-001").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-001").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "100"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, decEq{money("150")}).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, walletID, txn.WalletID)
			assert.Equal(t, domain.TransactionTypeCredit, txn.Type)
			assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
			assert.True(t, txn.Balance.Equal(money("150")))
			assert.NotNil(t, txn.ProcessedAt)
			return nil
		})
	d.idempCache.EXPECT().Set(ctx, "REF-001", gomock.Any(), time.Hour).Return(nil)

	result, err := d.svc.Transact(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(money("150")))
	assert.False(t, result.Idempotent)
	assert.NotEqual(t, uuid.Nil, result.TransactionID)
}

func TestLedgerService_Transact_DebitToExactlyZero(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.idempCache.EXPECT().Get(ctx, "REF-002").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-002").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "5.0000"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, decEq{decimal.Zero}).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.idempCache.EXPECT().Set(ctx, "REF-002", gomock.Any(), time.Hour).Return(nil)

	result, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("-5.0000"),
		Description: "drain",
		ReferenceID: "REF-002",
	})
	require.NoError(t, err)
	assert.True(t, result.Balance.IsZero())
}

func TestLedgerService_Transact_ZeroAmountRejected(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Transact(context.Background(), ports.TransactRequest{
		WalletID:    uuid.New(),
		Amount:      decimal.Zero,
		ReferenceID: "REF-003",
	})
	assert.Equal(t, "INVALID_TRANSACTION_AMOUNT", appCode(t, err))
}

func TestLedgerService_Transact_AmountOverBoundRejected(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Transact(context.Background(), ports.TransactRequest{
		WalletID:    uuid.New(),
		Amount:      money("1000000000"),
		ReferenceID: "REF-004",
	})
	assert.Equal(t, "INVALID_TRANSACTION_AMOUNT", appCode(t, err))
}

func TestLedgerService_Transact_InsufficientBalance(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.idempCache.EXPECT().Get(ctx, "REF-005").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-005").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "5.0000"), nil)

	_, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("-5.0001"),
		ReferenceID: "REF-005",
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)
	assert.Equal(t, "5.0000", appErr.Details["current_balance"])
	assert.Equal(t, "-5.0001", appErr.Details["requested_amount"])
}

func TestLedgerService_Transact_FrozenWalletRejected(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	frozen := activeWallet(walletID, "100")
	frozen.Status = domain.WalletStatusFrozen

	d.idempCache.EXPECT().Get(ctx, "REF-006").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-006").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(frozen, nil)

	_, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("10"),
		ReferenceID: "REF-006",
	})
	assert.Equal(t, "INVALID_WALLET_STATUS", appCode(t, err))
}

func TestLedgerService_Transact_WalletNotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.idempCache.EXPECT().Get(ctx, "REF-007").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-007").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(nil, nil)

	_, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("10"),
		ReferenceID: "REF-007",
	})
	assert.Equal(t, "WALLET_NOT_FOUND", appCode(t, err))
}

func TestLedgerService_Transact_CacheHitReplay(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	priorID := uuid.New()

	prior := domain.Transaction{
		ID:          priorID,
		WalletID:    walletID,
		Amount:      money("25"),
		Balance:     money("125"),
		ReferenceID: "REF-008",
		Status:      domain.TransactionStatusCompleted,
	}
	payload, err := json.Marshal(prior)
	require.NoError(t, err)

	// No Begin expected: the replay resolves entirely from cache.
	d.idempCache.EXPECT().Get(ctx, "REF-008").Return(payload, nil)

	result, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("25"),
		ReferenceID: "REF-008",
	})
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, priorID, result.TransactionID)
	assert.True(t, result.Balance.Equal(money("125")))
}

func TestLedgerService_Transact_CacheHitDifferentAmountConflicts(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	prior := domain.Transaction{
		ID:          uuid.New(),
		WalletID:    walletID,
		Amount:      money("25"),
		Balance:     money("125"),
		ReferenceID: "REF-009",
	}
	payload, _ := json.Marshal(prior)
	d.idempCache.EXPECT().Get(ctx, "REF-009").Return(payload, nil)

	_, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("26"),
		ReferenceID: "REF-009",
	})
	assert.Equal(t, "DUPLICATE_REFERENCE_ID", appCode(t, err))
}

func TestLedgerService_Transact_CacheHitDifferentWalletConflicts(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	prior := domain.Transaction{
		ID:          uuid.New(),
		WalletID:    uuid.New(),
		Amount:      money("25"),
		ReferenceID: "REF-010",
	}
	payload, _ := json.Marshal(prior)
	d.idempCache.EXPECT().Get(ctx, "REF-010").Return(payload, nil)

	_, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    uuid.New(),
		Amount:      money("25"),
		ReferenceID: "REF-010",
	})
	assert.Equal(t, "DUPLICATE_REFERENCE_ID", appCode(t, err))
}

func TestLedgerService_Transact_StorageReplayCheck(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	priorID := uuid.New()
	tx := &mockTx{}

	prior := &domain.Transaction{
		ID:          priorID,
		WalletID:    walletID,
		Amount:      money("25"),
		Balance:     money("125"),
		ReferenceID: "REF-011",
	}

	d.idempCache.EXPECT().Get(ctx, "REF-011").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-011").Return(prior, nil)

	result, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("25"),
		ReferenceID: "REF-011",
	})
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, priorID, result.TransactionID)
}

func TestLedgerService_Transact_ReferenceRaceResolvesAgainstWinner(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	winnerID := uuid.New()
	tx := &mockTx{}

	d.idempCache.EXPECT().Get(ctx, "REF-012").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-012").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "100"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(ports.ErrDuplicateReference)
	d.txRepo.EXPECT().GetByReference(ctx, "REF-012").Return(&domain.Transaction{
		ID:          winnerID,
		WalletID:    walletID,
		Amount:      money("10"),
		Balance:     money("110"),
		ReferenceID: "REF-012",
	}, nil)

	result, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("10"),
		ReferenceID: "REF-012",
	})
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, winnerID, result.TransactionID)
}

func TestLedgerService_Transact_CacheErrorFallsThrough(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.idempCache.EXPECT().Get(ctx, "REF-013").Return(nil, assert.AnError)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByReferenceTx(ctx, tx, "REF-013").Return(nil, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "100"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.idempCache.EXPECT().Set(ctx, "REF-013", gomock.Any(), time.Hour).Return(assert.AnError)

	result, err := d.svc.Transact(ctx, ports.TransactRequest{
		WalletID:    walletID,
		Amount:      money("10"),
		ReferenceID: "REF-013",
	})
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
}

// ==================== ListTransactions Tests ====================

func TestLedgerService_ListTransactions_PaginationViolations(t *testing.T) {
	cases := []struct {
		name  string
		skip  int
		limit int
	}{
		{"negative skip", -1, 10},
		{"zero limit", 0, 0},
		{"negative limit", 0, -5},
		{"limit over max", 0, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := setupLedgerService(t)
			defer d.ctrl.Finish()

			_, _, err := d.svc.ListTransactions(context.Background(), uuid.New(), tc.skip, tc.limit)
			assert.Equal(t, "INVALID_PAGINATION_PARAMS", appCode(t, err))
		})
	}
}

func TestLedgerService_ListTransactions_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(activeWallet(walletID, "100"), nil)
	d.txRepo.EXPECT().ListByWallet(ctx, walletID, 10, 5).Return(
		[]domain.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, int64(42), nil)

	txns, total, err := d.svc.ListTransactions(ctx, walletID, 10, 5)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, int64(42), total)
}

func TestLedgerService_ListTransactions_WalletNotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(nil, nil)

	_, _, err := d.svc.ListTransactions(ctx, walletID, 0, 10)
	assert.Equal(t, "WALLET_NOT_FOUND", appCode(t, err))
}

// ==================== ExportCSV Tests ====================

func TestLedgerService_ExportCSV(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	created := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(activeWallet(walletID, "100"), nil)
	d.txRepo.EXPECT().ListAllByWallet(ctx, walletID).Return([]domain.Transaction{
		{
			Amount:      money("-12.5"),
			Balance:     money("87.5"),
			Description: "lunch",
			Type:        domain.TransactionTypeDebit,
			CreatedAt:   created,
		},
		{
			Amount:      money("100"),
			Balance:     money("100"),
			Description: "Initial setup",
			Type:        domain.TransactionTypeCredit,
			CreatedAt:   created.Add(-time.Hour),
		},
	}, nil)

	out, err := d.svc.ExportCSV(ctx, walletID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Amount,Type,Description,Balance", lines[0])
	assert.Equal(t, "2025-03-01T12:30:00Z,-12.5000,DEBIT,lunch,87.5000", lines[1])
	assert.Equal(t, "2025-03-01T11:30:00Z,100.0000,CREDIT,Initial setup,100.0000", lines[2])
}

func TestLedgerService_ExportCSV_EmptyHistoryHasHeaderOnly(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(activeWallet(walletID, "0"), nil)
	d.txRepo.EXPECT().ListAllByWallet(ctx, walletID).Return(nil, nil)

	out, err := d.svc.ExportCSV(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount,Type,Description,Balance", strings.TrimSpace(string(out)))
}

// ==================== Deletion Tests ====================

func TestLedgerService_DeleteTransaction_RequiresFrozenWallet(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "100"), nil)

	err := d.svc.DeleteTransaction(ctx, txnID)
	assert.Equal(t, "WALLET_NOT_FROZEN", appCode(t, err))
}

func TestLedgerService_DeleteTransaction_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	frozen := activeWallet(walletID, "100")
	frozen.Status = domain.WalletStatusFrozen

	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(frozen, nil)
	d.txRepo.EXPECT().Delete(ctx, tx, txnID).Return(nil)

	// Balance is untouched: no UpdateBalance expectation.
	require.NoError(t, d.svc.DeleteTransaction(ctx, txnID))
}

func TestLedgerService_DeleteTransaction_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txnID := uuid.New()

	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(nil, nil)

	err := d.svc.DeleteTransaction(ctx, txnID)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", appCode(t, err))
}

func TestLedgerService_DeleteTransaction_RemovedConcurrently(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	frozen := activeWallet(walletID, "100")
	frozen.Status = domain.WalletStatusFrozen

	// The entry vanishes between the initial read and the locked delete,
	// e.g. a concurrent wipe of the same wallet. Still a 404, not a 500.
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(frozen, nil)
	d.txRepo.EXPECT().Delete(ctx, tx, txnID).Return(ports.ErrTransactionNotFound)

	err := d.svc.DeleteTransaction(ctx, txnID)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", appCode(t, err))
}

func TestLedgerService_DeleteAllTransactions_WipesAndResetsBalance(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	frozen := activeWallet(walletID, "250")
	frozen.Status = domain.WalletStatusFrozen

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(frozen, nil)
	d.txRepo.EXPECT().DeleteAllByWallet(ctx, tx, walletID).Return(int64(7), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, decEq{decimal.Zero}).Return(nil)

	require.NoError(t, d.svc.DeleteAllTransactions(ctx, walletID))
}

func TestLedgerService_DeleteAllTransactions_RequiresFrozenWallet(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(activeWallet(walletID, "250"), nil)

	err := d.svc.DeleteAllTransactions(ctx, walletID)
	assert.Equal(t, "WALLET_NOT_FROZEN", appCode(t, err))
}
