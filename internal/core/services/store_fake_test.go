package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
)

// fakeTx satisfies pgx.Tx by embedding; the fake store never invokes the
// embedded interface, it only uses the handle for identity.
type fakeTx struct {
	pgx.Tx
	done atomic.Bool
}

// memStore is an in-memory ledger store implementing the TxManager and all
// repository ports. It serializes transactions with a mutex, exactly like
// row locks serialize them in Postgres, and restores a snapshot on rollback.
// It also enforces the same non-negativity rules the schema CHECKs enforce.
type memStore struct {
	txMu    sync.Mutex // held for the whole transaction
	stateMu sync.Mutex // guards the maps below

	balances map[string]domain.Balance
	treasury domain.Treasury
	txns     []domain.Transaction
	escrows  map[string]domain.Escrow

	snapBalances map[string]domain.Balance
	snapTreasury domain.Treasury
	snapTxnLen   int
	snapEscrows  map[string]domain.Escrow
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[string]domain.Balance),
		escrows:  make(map[string]domain.Escrow),
	}
}

// seedBalance installs a balance row and raises issued supply to match, so a
// freshly seeded store always satisfies the conservation equation.
func (s *memStore) seedBalance(userID string, available decimal.Decimal) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	now := time.Now().UTC()
	s.balances[userID] = domain.Balance{
		UserID:    userID,
		Available: available,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: "seed", LastUpdatedAt: now, LastUpdatedBy: "seed",
		},
	}
	s.treasury.TotalIssued = s.treasury.TotalIssued.Add(available)
}

func (s *memStore) seedEscrow(e domain.Escrow) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.escrows[e.EscrowID] = e
}

// conserved reports whether sum(available)+sum(locked)+treasury.balance
// equals total issued.
func (s *memStore) conserved() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	total := s.treasury.Balance
	for _, b := range s.balances {
		total = total.Add(b.Available).Add(b.Locked)
	}
	return total.Equal(s.treasury.TotalIssued)
}

func (s *memStore) balance(userID string) domain.Balance {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.balances[userID]
}

func (s *memStore) treasuryRow() domain.Treasury {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.treasury
}

func (s *memStore) transactionCount() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return len(s.txns)
}

func (s *memStore) lastTransaction() domain.Transaction {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.txns[len(s.txns)-1]
}

func (s *memStore) escrow(escrowID string) domain.Escrow {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.escrows[escrowID]
}

// --- TxManager ---

func (s *memStore) Begin(_ context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	s.stateMu.Lock()
	s.snapBalances = make(map[string]domain.Balance, len(s.balances))
	for k, v := range s.balances {
		s.snapBalances[k] = v
	}
	s.snapEscrows = make(map[string]domain.Escrow, len(s.escrows))
	for k, v := range s.escrows {
		s.snapEscrows[k] = v
	}
	s.snapTreasury = s.treasury
	s.snapTxnLen = len(s.txns)
	s.stateMu.Unlock()
	return &fakeTx{}, nil
}

func (s *memStore) Commit(_ context.Context, tx pgx.Tx) error {
	f := tx.(*fakeTx)
	if f.done.Swap(true) {
		return nil
	}
	s.txMu.Unlock()
	return nil
}

func (s *memStore) Rollback(_ context.Context, tx pgx.Tx) error {
	f := tx.(*fakeTx)
	if f.done.Swap(true) {
		return nil
	}
	s.stateMu.Lock()
	s.balances = s.snapBalances
	s.escrows = s.snapEscrows
	s.treasury = s.snapTreasury
	s.txns = s.txns[:s.snapTxnLen]
	s.stateMu.Unlock()
	s.txMu.Unlock()
	return nil
}

// --- BalanceRepository ---

func (s *memStore) CreateBalance(_ context.Context, _ pgx.Tx, balance domain.Balance) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if _, ok := s.balances[balance.UserID]; ok {
		return fmt.Errorf("%w: balance %s", apperrors.ErrDuplicate, balance.UserID)
	}
	s.balances[balance.UserID] = balance
	return nil
}

func (s *memStore) EnsureBalance(_ context.Context, _ pgx.Tx, balance domain.Balance) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if _, ok := s.balances[balance.UserID]; !ok {
		s.balances[balance.UserID] = balance
	}
	return nil
}

func (s *memStore) FindBalanceByUserID(_ context.Context, userID string) (*domain.Balance, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	b, ok := s.balances[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, userID)
	}
	return &b, nil
}

func (s *memStore) LockBalances(_ context.Context, _ pgx.Tx, userIDs []string) (map[string]domain.Balance, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	sorted := append([]string(nil), userIDs...)
	sort.Strings(sorted)
	out := make(map[string]domain.Balance, len(sorted))
	for _, id := range sorted {
		if b, ok := s.balances[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (s *memStore) AdjustBalance(_ context.Context, _ pgx.Tx, userID string, availableDelta, lockedDelta, earnedDelta, spentDelta decimal.Decimal, updatedBy string, now time.Time) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	b, ok := s.balances[userID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, userID)
	}
	b.Available = b.Available.Add(availableDelta)
	b.Locked = b.Locked.Add(lockedDelta)
	b.LifetimeEarned = b.LifetimeEarned.Add(earnedDelta)
	b.LifetimeSpent = b.LifetimeSpent.Add(spentDelta)
	if b.Available.IsNegative() || b.Locked.IsNegative() {
		// Same outcome as the schema's non-negativity CHECK.
		return fmt.Errorf("%w: %s would go negative", apperrors.ErrInsufficientFunds, userID)
	}
	b.LastUpdatedAt = now
	b.LastUpdatedBy = updatedBy
	s.balances[userID] = b
	return nil
}

func (s *memStore) SumBalances(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	available, locked := decimal.Zero, decimal.Zero
	for _, b := range s.balances {
		available = available.Add(b.Available)
		locked = locked.Add(b.Locked)
	}
	return available, locked, nil
}

// --- TreasuryRepository ---

func (s *memStore) FindTreasury(_ context.Context) (*domain.Treasury, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	t := s.treasury
	return &t, nil
}

func (s *memStore) LockTreasury(_ context.Context, _ pgx.Tx) (*domain.Treasury, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	t := s.treasury
	return &t, nil
}

func (s *memStore) AdjustTreasury(_ context.Context, _ pgx.Tx, balanceDelta, issuedDelta decimal.Decimal, updatedBy string, now time.Time) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	t := s.treasury
	t.Balance = t.Balance.Add(balanceDelta)
	t.TotalIssued = t.TotalIssued.Add(issuedDelta)
	if t.Balance.IsNegative() || t.TotalIssued.IsNegative() {
		return fmt.Errorf("%w: treasury would go negative", apperrors.ErrInsufficientFunds)
	}
	t.LastUpdatedAt = now
	t.LastUpdatedBy = updatedBy
	s.treasury = t
	return nil
}

// --- TransactionRepository ---

func (s *memStore) InsertTransaction(_ context.Context, _ pgx.Tx, txn domain.Transaction) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.txns = append(s.txns, txn)
	return nil
}

func (s *memStore) ListTransactionsByUser(_ context.Context, userID string, limit int, _ *string) ([]domain.Transaction, *string, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	var out []domain.Transaction
	for i := len(s.txns) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.txns[i]
		if (t.SenderID != nil && *t.SenderID == userID) || (t.ReceiverID != nil && *t.ReceiverID == userID) {
			out = append(out, t)
		}
	}
	return out, nil, nil
}

// --- EscrowRepository ---

func (s *memStore) InsertEscrow(_ context.Context, _ pgx.Tx, escrow domain.Escrow) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if _, ok := s.escrows[escrow.EscrowID]; ok {
		return fmt.Errorf("%w: escrow %s", apperrors.ErrDuplicate, escrow.EscrowID)
	}
	s.escrows[escrow.EscrowID] = escrow
	return nil
}

func (s *memStore) FindEscrowByID(_ context.Context, escrowID string) (*domain.Escrow, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	e, ok := s.escrows[escrowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEscrowNotFound, escrowID)
	}
	return &e, nil
}

func (s *memStore) LockEscrowByID(_ context.Context, _ pgx.Tx, escrowID string) (*domain.Escrow, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	e, ok := s.escrows[escrowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEscrowNotFound, escrowID)
	}
	return &e, nil
}

func (s *memStore) SettleEscrow(_ context.Context, _ pgx.Tx, escrowID string, status domain.EscrowStatus, updatedBy string, now time.Time) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	e, ok := s.escrows[escrowID]
	if !ok || e.Status != domain.EscrowHeld {
		return fmt.Errorf("%w: escrow %s", apperrors.ErrInvalidEscrowState, escrowID)
	}
	e.Status = status
	switch status {
	case domain.EscrowReleased:
		e.ReleasedAt = &now
	case domain.EscrowRefunded, domain.EscrowExpired:
		e.RefundedAt = &now
	}
	e.LastUpdatedAt = now
	e.LastUpdatedBy = updatedBy
	s.escrows[escrowID] = e
	return nil
}

func (s *memStore) LockStaleHeldEscrows(_ context.Context, _ pgx.Tx, cutoff time.Time, limit int) ([]domain.Escrow, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	var out []domain.Escrow
	for _, e := range s.escrows {
		if e.Status == domain.EscrowHeld && e.HeldAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HeldAt.Before(out[j].HeldAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- collaborators ---

// recordingNotifier captures post-commit balance events.
type recordingNotifier struct {
	mu     sync.Mutex
	events [][]string
}

func (n *recordingNotifier) BalanceChanged(_ context.Context, userIDs ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, userIDs)
}

func (n *recordingNotifier) notified() [][]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events
}

// staticResolver resolves references from a fixed map.
type staticResolver struct {
	payees map[string]string // refType/refID -> payee
}

func (r *staticResolver) ResolvePayee(_ context.Context, refType domain.ReferenceType, refID string) (string, error) {
	payee, ok := r.payees[string(refType)+"/"+refID]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", apperrors.ErrProviderNotFound, refType, refID)
	}
	return payee, nil
}
