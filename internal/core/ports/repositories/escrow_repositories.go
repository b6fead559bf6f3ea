package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// EscrowRepository persists escrow holds.
type EscrowRepository interface {
	// InsertEscrow inserts a new hold in held state.
	InsertEscrow(ctx context.Context, tx pgx.Tx, escrow domain.Escrow) error

	// FindEscrowByID reads a hold without locking it.
	FindEscrowByID(ctx context.Context, escrowID string) (*domain.Escrow, error)

	// LockEscrowByID acquires a FOR UPDATE lock on the hold, serialising
	// concurrent release/refund attempts on the same escrow.
	LockEscrowByID(ctx context.Context, tx pgx.Tx, escrowID string) (*domain.Escrow, error)

	// SettleEscrow transitions a locked hold to a terminal status and
	// stamps the matching timestamp. The WHERE clause re-checks
	// status = held so a terminal row is never mutated again.
	SettleEscrow(ctx context.Context, tx pgx.Tx, escrowID string, status domain.EscrowStatus, updatedBy string, now time.Time) error

	// LockStaleHeldEscrows locks up to limit holds that have been in held
	// state since before cutoff, oldest first, skipping rows locked by
	// concurrent operations.
	LockStaleHeldEscrows(ctx context.Context, tx pgx.Tx, cutoff time.Time, limit int) ([]domain.Escrow, error)
}
