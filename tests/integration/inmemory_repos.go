package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// memStore is shared in-memory storage for the integration stack. It
// mirrors the two tables and, crucially, per-wallet row locks: a wallet
// locked through GetByIDForUpdate stays locked until the surrounding
// memTx commits or rolls back, so concurrent movements on one wallet
// serialize exactly like they do against PostgreSQL.
//
// pendingRefs and pendingNames reserve unique keys for writes a memTx
// has staged but not yet committed, standing in for the unique indexes.
type memStore struct {
	mu           sync.Mutex
	wallets      map[uuid.UUID]*domain.Wallet
	txns         map[uuid.UUID]*domain.Transaction
	txnSeq       map[uuid.UUID]int64
	seq          int64
	rowLocks     map[uuid.UUID]*sync.Mutex
	pendingRefs  map[string]struct{}
	pendingNames map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		wallets:      make(map[uuid.UUID]*domain.Wallet),
		txns:         make(map[uuid.UUID]*domain.Transaction),
		txnSeq:       make(map[uuid.UUID]int64),
		rowLocks:     make(map[uuid.UUID]*sync.Mutex),
		pendingRefs:  make(map[string]struct{}),
		pendingNames: make(map[string]struct{}),
	}
}

func (s *memStore) rowLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	return &c
}

func cloneTxn(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

// --- memTx: a pgx.Tx that owns row locks and buffers writes ---

// memTx buffers every data write until Commit, which publishes the whole
// batch under the store lock; Rollback discards it. Reads inside the
// transaction see committed state only, which matches how the engine
// uses its units of work (it never reads back its own writes).
type memTx struct {
	store  *memStore
	mu     sync.Mutex
	held   []*sync.Mutex
	staged []func(s *memStore)
	refs   []string
	names  []string
	done   bool
}

func (t *memTx) acquire(l *sync.Mutex) {
	l.Lock()
	t.mu.Lock()
	t.held = append(t.held, l)
	t.mu.Unlock()
}

func (t *memTx) stage(fn func(s *memStore)) {
	t.mu.Lock()
	t.staged = append(t.staged, fn)
	t.mu.Unlock()
}

func (t *memTx) reserveRef(ref string) {
	t.mu.Lock()
	t.refs = append(t.refs, ref)
	t.mu.Unlock()
}

func (t *memTx) reserveName(name string) {
	t.mu.Lock()
	t.names = append(t.names, name)
	t.mu.Unlock()
}

// finish publishes (or discards) the staged writes, releases the unique
// key reservations, then the row locks. Idempotent, so the engine's
// deferred Rollback after Commit is a no-op.
func (t *memTx) finish(apply bool) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	staged, refs, names, held := t.staged, t.refs, t.names, t.held
	t.staged, t.refs, t.names, t.held = nil, nil, nil, nil
	t.mu.Unlock()

	t.store.mu.Lock()
	if apply {
		for _, fn := range staged {
			fn(t.store)
		}
	}
	for _, ref := range refs {
		delete(t.store.pendingRefs, ref)
	}
	for _, name := range names {
		delete(t.store.pendingNames, name)
	}
	t.store.mu.Unlock()

	for _, l := range held {
		l.Unlock()
	}
}

func (t *memTx) Commit(ctx context.Context) error   { t.finish(true); return nil }
func (t *memTx) Rollback(ctx context.Context) error { t.finish(false); return nil }

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                              { return nil }

func asMemTx(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("expected a memTx, got %T", tx)
	}
	return mt, nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct {
	store *memStore
}

func newInMemoryTransactor(store *memStore) *inMemoryTransactor {
	return &inMemoryTransactor{store: store}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{store: t.store}, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	store *memStore
}

func newInMemoryWalletRepo(store *memStore) *inMemoryWalletRepo {
	return &inMemoryWalletRepo{store: store}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	if _, pending := r.store.pendingNames[w.Name]; pending {
		r.store.mu.Unlock()
		return ports.ErrDuplicateWalletName
	}
	for _, existing := range r.store.wallets {
		if existing.Name == w.Name {
			r.store.mu.Unlock()
			return ports.ErrDuplicateWalletName
		}
	}
	r.store.pendingNames[w.Name] = struct{}{}
	r.store.mu.Unlock()

	mt.reserveName(w.Name)
	row := cloneWallet(w)
	mt.stage(func(s *memStore) {
		s.wallets[row.ID] = row
	})
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	return cloneWallet(w), nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	_, ok := r.store.wallets[id]
	r.store.mu.Unlock()
	if !ok {
		return nil, nil
	}

	mt, err := asMemTx(tx)
	if err != nil {
		return nil, err
	}
	mt.acquire(r.store.rowLock(id))

	// Re-read after the lock: the row may have changed while waiting.
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallets := make([]domain.Wallet, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		wallets = append(wallets, *cloneWallet(w))
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.After(wallets[j].CreatedAt)
	})
	return wallets, nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, ok := r.store.wallets[walletID]
	r.store.mu.Unlock()
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}

	mt.stage(func(s *memStore) {
		if w, ok := s.wallets[walletID]; ok {
			w.Balance = balance
			w.Version++
		}
	})
	return nil
}

func (r *inMemoryWalletRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	w.Status = status
	w.Version++
	return cloneWallet(w), nil
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, ok := r.store.wallets[id]
	r.store.mu.Unlock()
	if !ok {
		return fmt.Errorf("wallet not found: %s", id)
	}

	mt.stage(func(s *memStore) {
		delete(s.wallets, id)
	})
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	store *memStore
}

func newInMemoryTransactionRepo(store *memStore) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{store: store}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	if _, pending := r.store.pendingRefs[t.ReferenceID]; pending {
		r.store.mu.Unlock()
		return ports.ErrDuplicateReference
	}
	for _, existing := range r.store.txns {
		if existing.ReferenceID == t.ReferenceID {
			r.store.mu.Unlock()
			return ports.ErrDuplicateReference
		}
	}
	r.store.pendingRefs[t.ReferenceID] = struct{}{}
	r.store.mu.Unlock()

	mt.reserveRef(t.ReferenceID)
	row := cloneTxn(t)
	mt.stage(func(s *memStore) {
		s.seq++
		s.txns[row.ID] = row
		s.txnSeq[row.ID] = s.seq
	})
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.txns[id]
	if !ok {
		return nil, nil
	}
	return cloneTxn(t), nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.txns {
		if t.ReferenceID == referenceID {
			return cloneTxn(t), nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) GetByReferenceTx(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.Transaction, error) {
	return r.GetByReference(ctx, referenceID)
}

func (r *inMemoryTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, skip, limit int) ([]domain.Transaction, int64, error) {
	all, err := r.ListAllByWallet(ctx, walletID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if skip >= len(all) {
		return []domain.Transaction{}, total, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (r *inMemoryTransactionRepo) ListAllByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Transaction
	for _, t := range r.store.txns {
		if t.WalletID == walletID {
			result = append(result, *cloneTxn(t))
		}
	}
	// Newest first; insertion order breaks created_at ties.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return r.store.txnSeq[result[i].ID] > r.store.txnSeq[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryTransactionRepo) CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var total int64
	for _, t := range r.store.txns {
		if t.WalletID == walletID {
			total++
		}
	}
	return total, nil
}

func (r *inMemoryTransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, ok := r.store.txns[id]
	r.store.mu.Unlock()
	if !ok {
		return ports.ErrTransactionNotFound
	}

	mt.stage(func(s *memStore) {
		delete(s.txns, id)
		delete(s.txnSeq, id)
	})
	return nil
}

func (r *inMemoryTransactionRepo) DeleteAllByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error) {
	mt, err := asMemTx(tx)
	if err != nil {
		return 0, err
	}

	r.store.mu.Lock()
	var removed int64
	for _, t := range r.store.txns {
		if t.WalletID == walletID {
			removed++
		}
	}
	r.store.mu.Unlock()

	mt.stage(func(s *memStore) {
		for id, t := range s.txns {
			if t.WalletID == walletID {
				delete(s.txns, id)
				delete(s.txnSeq, id)
			}
		}
	})
	return removed, nil
}
