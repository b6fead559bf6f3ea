package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	"github.com/malihub/mali_ledger/internal/models"
	"github.com/malihub/mali_ledger/internal/utils/mapping"
)

type PgxBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxBalanceRepository creates a new repository for balance rows.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepository {
	return &PgxBalanceRepository{pool: pool}
}

// Ensure PgxBalanceRepository implements portsrepo.BalanceRepository
var _ portsrepo.BalanceRepository = (*PgxBalanceRepository)(nil)

const balanceColumns = `user_id, available, locked, lifetime_earned, lifetime_spent, created_at, created_by, last_updated_at, last_updated_by`

func scanBalance(row pgx.Row) (models.Balance, error) {
	var m models.Balance
	err := row.Scan(
		&m.UserID,
		&m.Available,
		&m.Locked,
		&m.LifetimeEarned,
		&m.LifetimeSpent,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateBalance inserts a new balance row.
func (r *PgxBalanceRepository) CreateBalance(ctx context.Context, tx pgx.Tx, balance domain.Balance) error {
	m := mapping.ToModelBalance(balance)

	query := `
		INSERT INTO balances (user_id, available, locked, lifetime_earned, lifetime_spent, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		m.UserID,
		m.Available,
		m.Locked,
		m.LifetimeEarned,
		m.LifetimeSpent,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to create balance for user "+m.UserID)
	}
	return nil
}

// EnsureBalance inserts the row if absent, no-op when it already exists.
func (r *PgxBalanceRepository) EnsureBalance(ctx context.Context, tx pgx.Tx, balance domain.Balance) error {
	m := mapping.ToModelBalance(balance)

	query := `
		INSERT INTO balances (user_id, available, locked, lifetime_earned, lifetime_spent, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO NOTHING;
	`
	_, err := tx.Exec(ctx, query,
		m.UserID,
		m.Available,
		m.Locked,
		m.LifetimeEarned,
		m.LifetimeSpent,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to ensure balance for user "+m.UserID)
	}
	return nil
}

// FindBalanceByUserID retrieves a balance without locking it.
func (r *PgxBalanceRepository) FindBalanceByUserID(ctx context.Context, userID string) (*domain.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1;`

	m, err := scanBalance(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, mapPgError(err, "failed to find balance for user "+userID)
	}

	d := mapping.ToDomainBalance(m)
	return &d, nil
}

// LockBalances retrieves and FOR UPDATE locks the rows for the given users.
// ORDER BY user_id fixes the acquisition order so two concurrent operations
// touching the same pair of accounts cannot deadlock.
func (r *PgxBalanceRepository) LockBalances(ctx context.Context, tx pgx.Tx, userIDs []string) (map[string]domain.Balance, error) {
	if len(userIDs) == 0 {
		return map[string]domain.Balance{}, nil
	}

	sorted := append([]string(nil), userIDs...)
	sort.Strings(sorted)

	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, mapPgError(err, "failed to lock balance rows")
	}
	defer rows.Close()

	balances := make(map[string]domain.Balance, len(sorted))
	for rows.Next() {
		var m models.Balance
		if err := rows.Scan(
			&m.UserID,
			&m.Available,
			&m.Locked,
			&m.LifetimeEarned,
			&m.LifetimeSpent,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan locked balance row: %w", err)
		}
		balances[m.UserID] = mapping.ToDomainBalance(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating locked balance rows")
	}

	if len(balances) != len(sorted) {
		missing := make([]string, 0)
		for _, id := range sorted {
			if _, ok := balances[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.DebugContext(ctx, "Some balance rows requested for lock were not found", "missing_users", missing)
	}

	return balances, nil
}

// AdjustBalance applies deltas to a row the caller has locked. The schema's
// CHECK (available >= 0 AND locked >= 0) backs up the service-level funds
// check; a violation maps to ErrInsufficientFunds.
func (r *PgxBalanceRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, userID string, availableDelta, lockedDelta, earnedDelta, spentDelta decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE balances
		SET available = available + $2,
		    locked = locked + $3,
		    lifetime_earned = lifetime_earned + $4,
		    lifetime_spent = lifetime_spent + $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE user_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, userID, availableDelta, lockedDelta, earnedDelta, spentDelta, now, updatedBy)
	if err != nil {
		return mapPgError(err, "failed to adjust balance for user "+userID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrAccountNotFound, userID)
	}
	return nil
}

// SumBalances sums available and locked across all accounts. Lockless by
// design: the audit tolerates a torn snapshot.
func (r *PgxBalanceRepository) SumBalances(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(available), 0), COALESCE(SUM(locked), 0) FROM balances;`

	var available, locked decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&available, &locked); err != nil {
		return decimal.Zero, decimal.Zero, mapPgError(err, "failed to sum balances")
	}
	return available, locked, nil
}
