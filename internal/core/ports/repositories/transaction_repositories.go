package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// TransactionRepository appends to and reads the immutable audit trail.
type TransactionRepository interface {
	// InsertTransaction appends one audit-trail row inside the caller's
	// transaction. Rows are never updated afterwards.
	InsertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// ListTransactionsByUser returns the user's records (as sender or
	// receiver), newest first, with a keyset pagination token.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
