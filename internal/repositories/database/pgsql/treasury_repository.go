package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
)

// treasuryID is the fixed primary key of the singleton treasury row,
// inserted by the initial migration.
const treasuryID = 1

type PgxTreasuryRepository struct {
	pool *pgxpool.Pool
}

// newPgxTreasuryRepository creates a new repository for the treasury row.
func newPgxTreasuryRepository(pool *pgxpool.Pool) portsrepo.TreasuryRepository {
	return &PgxTreasuryRepository{pool: pool}
}

// Ensure PgxTreasuryRepository implements portsrepo.TreasuryRepository
var _ portsrepo.TreasuryRepository = (*PgxTreasuryRepository)(nil)

// FindTreasury reads the treasury without locking it.
func (r *PgxTreasuryRepository) FindTreasury(ctx context.Context) (*domain.Treasury, error) {
	query := `SELECT balance, total_issued, last_updated_at, last_updated_by FROM treasury WHERE id = $1;`

	var t domain.Treasury
	err := r.pool.QueryRow(ctx, query, treasuryID).Scan(&t.Balance, &t.TotalIssued, &t.LastUpdatedAt, &t.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The migration seeds the row; missing means broken setup.
			return nil, apperrors.NewAppError(500, "treasury row missing", apperrors.ErrInternal)
		}
		return nil, mapPgError(err, "failed to read treasury")
	}
	return &t, nil
}

// LockTreasury acquires a FOR UPDATE lock on the treasury row. The treasury
// is a hotspot: callers lock it last and commit promptly.
func (r *PgxTreasuryRepository) LockTreasury(ctx context.Context, tx pgx.Tx) (*domain.Treasury, error) {
	query := `SELECT balance, total_issued, last_updated_at, last_updated_by FROM treasury WHERE id = $1 FOR UPDATE;`

	var t domain.Treasury
	err := tx.QueryRow(ctx, query, treasuryID).Scan(&t.Balance, &t.TotalIssued, &t.LastUpdatedAt, &t.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(500, "treasury row missing", apperrors.ErrInternal)
		}
		return nil, mapPgError(err, "failed to lock treasury")
	}
	return &t, nil
}

// AdjustTreasury applies deltas to the locked treasury row. The schema
// carries CHECK (balance >= 0 AND total_issued >= 0).
func (r *PgxTreasuryRepository) AdjustTreasury(ctx context.Context, tx pgx.Tx, balanceDelta, issuedDelta decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE treasury
		SET balance = balance + $2,
		    total_issued = total_issued + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE id = $1;
	`
	if _, err := tx.Exec(ctx, query, treasuryID, balanceDelta, issuedDelta, now, updatedBy); err != nil {
		return mapPgError(err, "failed to adjust treasury")
	}
	return nil
}
