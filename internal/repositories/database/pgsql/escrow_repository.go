package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	"github.com/malihub/mali_ledger/internal/models"
	"github.com/malihub/mali_ledger/internal/utils/mapping"
)

type PgxEscrowRepository struct {
	pool *pgxpool.Pool
}

// newPgxEscrowRepository creates a new repository for escrow holds.
func newPgxEscrowRepository(pool *pgxpool.Pool) portsrepo.EscrowRepository {
	return &PgxEscrowRepository{pool: pool}
}

// Ensure PgxEscrowRepository implements portsrepo.EscrowRepository
var _ portsrepo.EscrowRepository = (*PgxEscrowRepository)(nil)

const escrowColumns = `escrow_id, user_id, amount, status, reference_type, reference_id, held_at, released_at, refunded_at, created_at, created_by, last_updated_at, last_updated_by`

func scanEscrow(row pgx.Row) (models.Escrow, error) {
	var m models.Escrow
	var releasedAt, refundedAt sql.NullTime
	err := row.Scan(
		&m.EscrowID,
		&m.UserID,
		&m.Amount,
		&m.Status,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.HeldAt,
		&releasedAt,
		&refundedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if releasedAt.Valid {
		m.ReleasedAt = &releasedAt.Time
	}
	if refundedAt.Valid {
		m.RefundedAt = &refundedAt.Time
	}
	return m, err
}

// InsertEscrow inserts a new hold in held state.
func (r *PgxEscrowRepository) InsertEscrow(ctx context.Context, tx pgx.Tx, escrow domain.Escrow) error {
	m := mapping.ToModelEscrow(escrow)

	query := `
		INSERT INTO escrows (escrow_id, user_id, amount, status, reference_type, reference_id, held_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.EscrowID,
		m.UserID,
		m.Amount,
		m.Status,
		m.ReferenceType,
		m.ReferenceID,
		m.HeldAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert escrow "+m.EscrowID)
	}
	return nil
}

// FindEscrowByID reads a hold without locking it.
func (r *PgxEscrowRepository) FindEscrowByID(ctx context.Context, escrowID string) (*domain.Escrow, error) {
	query := `SELECT ` + escrowColumns + ` FROM escrows WHERE escrow_id = $1;`

	m, err := scanEscrow(r.pool.QueryRow(ctx, query, escrowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEscrowNotFound
		}
		return nil, mapPgError(err, "failed to find escrow "+escrowID)
	}

	d := mapping.ToDomainEscrow(m)
	return &d, nil
}

// LockEscrowByID acquires a FOR UPDATE lock on the hold.
func (r *PgxEscrowRepository) LockEscrowByID(ctx context.Context, tx pgx.Tx, escrowID string) (*domain.Escrow, error) {
	query := `SELECT ` + escrowColumns + ` FROM escrows WHERE escrow_id = $1 FOR UPDATE;`

	m, err := scanEscrow(tx.QueryRow(ctx, query, escrowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEscrowNotFound
		}
		return nil, mapPgError(err, "failed to lock escrow "+escrowID)
	}

	d := mapping.ToDomainEscrow(m)
	return &d, nil
}

// SettleEscrow transitions a locked hold to a terminal status. The WHERE
// clause re-checks status = held: a terminal row is never written twice.
func (r *PgxEscrowRepository) SettleEscrow(ctx context.Context, tx pgx.Tx, escrowID string, status domain.EscrowStatus, updatedBy string, now time.Time) error {
	var stampColumn string
	switch status {
	case domain.EscrowReleased:
		stampColumn = "released_at"
	case domain.EscrowRefunded, domain.EscrowExpired:
		stampColumn = "refunded_at"
	default:
		return fmt.Errorf("%w: cannot settle escrow into status %s", apperrors.ErrValidation, status)
	}

	query := fmt.Sprintf(`
		UPDATE escrows
		SET status = $2, %s = $3, last_updated_at = $3, last_updated_by = $4
		WHERE escrow_id = $1 AND status = $5;
	`, stampColumn)

	cmdTag, err := tx.Exec(ctx, query, escrowID, string(status), now, updatedBy, string(domain.EscrowHeld))
	if err != nil {
		return mapPgError(err, "failed to settle escrow "+escrowID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: escrow %s is not held", apperrors.ErrInvalidEscrowState, escrowID)
	}
	return nil
}

// LockStaleHeldEscrows locks up to limit holds older than cutoff, oldest
// first. SKIP LOCKED keeps the sweep from queueing behind in-flight
// release/refund operations.
func (r *PgxEscrowRepository) LockStaleHeldEscrows(ctx context.Context, tx pgx.Tx, cutoff time.Time, limit int) ([]domain.Escrow, error) {
	query := `
		SELECT ` + escrowColumns + `
		FROM escrows
		WHERE status = $1 AND held_at < $2
		ORDER BY held_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED;
	`

	rows, err := tx.Query(ctx, query, string(domain.EscrowHeld), cutoff, limit)
	if err != nil {
		return nil, mapPgError(err, "failed to lock stale escrows")
	}
	defer rows.Close()

	escrows := make([]domain.Escrow, 0)
	for rows.Next() {
		var m models.Escrow
		var releasedAt, refundedAt sql.NullTime
		if err := rows.Scan(
			&m.EscrowID,
			&m.UserID,
			&m.Amount,
			&m.Status,
			&m.ReferenceType,
			&m.ReferenceID,
			&m.HeldAt,
			&releasedAt,
			&refundedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stale escrow row: %w", err)
		}
		if releasedAt.Valid {
			m.ReleasedAt = &releasedAt.Time
		}
		if refundedAt.Valid {
			m.RefundedAt = &refundedAt.Time
		}
		escrows = append(escrows, mapping.ToDomainEscrow(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating stale escrow rows")
	}
	return escrows, nil
}
