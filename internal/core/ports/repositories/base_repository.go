package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager defines methods for transaction management. Every mutating
// ledger operation runs inside exactly one transaction obtained here; the
// transaction handle is passed explicitly through every repository call so a
// higher-level orchestration can compose several ledger calls into one unit
// of work.
type TxManager interface {
	// Begin starts a new database transaction with the configured
	// lock_timeout applied.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. Rolling back an already
	// committed transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
