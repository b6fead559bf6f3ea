package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// BalanceRepository persists per-user balance rows.
type BalanceRepository interface {
	// CreateBalance inserts a zero-or-seeded balance row. Returns
	// apperrors.ErrDuplicate if the row already exists.
	CreateBalance(ctx context.Context, tx pgx.Tx, balance domain.Balance) error

	// EnsureBalance inserts the row if absent and is a no-op otherwise
	// (ON CONFLICT DO NOTHING — a plain insert racing a concurrent
	// creator would poison the enclosing transaction). Used only by the
	// transfer receiver auto-provisioning path.
	EnsureBalance(ctx context.Context, tx pgx.Tx, balance domain.Balance) error

	// FindBalanceByUserID reads a balance without locking it.
	FindBalanceByUserID(ctx context.Context, userID string) (*domain.Balance, error)

	// LockBalances acquires FOR UPDATE locks on the given users' rows in
	// ascending user_id order (fixed global order, prevents deadlock
	// between concurrent operations on the same pair). Missing rows are
	// simply absent from the returned map; callers decide whether that is
	// an error or a provisioning opportunity.
	LockBalances(ctx context.Context, tx pgx.Tx, userIDs []string) (map[string]domain.Balance, error)

	// AdjustBalance applies deltas to a row the caller has already
	// locked. availableDelta/lockedDelta may be negative; earnedDelta and
	// spentDelta are the lifetime counter increments (never negative).
	AdjustBalance(ctx context.Context, tx pgx.Tx, userID string, availableDelta, lockedDelta, earnedDelta, spentDelta decimal.Decimal, updatedBy string, now time.Time) error

	// SumBalances returns sum(available) and sum(locked) across all
	// accounts. Read-only, no locks: the audit tolerates a torn snapshot.
	SumBalances(ctx context.Context) (available, locked decimal.Decimal, err error)
}

// TreasuryRepository persists the singleton treasury row.
type TreasuryRepository interface {
	// FindTreasury reads the treasury without locking it.
	FindTreasury(ctx context.Context) (*domain.Treasury, error)

	// LockTreasury acquires a FOR UPDATE lock on the treasury row. The
	// treasury is a hotspot: lock it last and hold it briefly.
	LockTreasury(ctx context.Context, tx pgx.Tx) (*domain.Treasury, error)

	// AdjustTreasury applies deltas to the locked treasury row.
	// issuedDelta is non-zero only for mint, deposit and withdrawal.
	AdjustTreasury(ctx context.Context, tx pgx.Tx, balanceDelta, issuedDelta decimal.Decimal, updatedBy string, now time.Time) error
}
