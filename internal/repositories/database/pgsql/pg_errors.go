package pgsql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/malihub/mali_ledger/internal/apperrors"
)

// Postgres error codes the repositories map to application errors.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014" // statement_timeout / cancellation
)

// mapPgError translates driver-level errors into the apperrors taxonomy.
// Check violations come from the non-negativity constraints on balance rows
// and mean the funds check lost a race it should not have been able to lose.
func mapPgError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, what)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, what)
		case pgLockNotAvailable, pgQueryCanceled:
			return fmt.Errorf("%w: %s", apperrors.ErrLockTimeout, what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
