package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	"github.com/malihub/mali_ledger/internal/models"
	"github.com/malihub/mali_ledger/internal/utils/mapping"
	"github.com/malihub/mali_ledger/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for the audit trail.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// InsertTransaction appends one audit-trail row inside the caller's
// transaction. There is no update path: completed records are history.
func (r *PgxTransactionRepository) InsertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (transaction_id, sender_id, receiver_id, amount, fee, net_amount, type, status, reference_type, reference_id, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.SenderID,
		m.ReceiverID,
		m.Amount,
		m.Fee,
		m.NetAmount,
		m.Type,
		m.Status,
		nullableString(m.ReferenceType),
		nullableString(m.ReferenceID),
		m.Note,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert transaction "+m.TransactionID)
	}
	return nil
}

// ListTransactionsByUser returns the user's records (sender or receiver
// side), newest first, using keyset pagination over (created_at,
// transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT transaction_id, sender_id, receiver_id, amount, fee, net_amount, type, status, reference_type, reference_id, note, created_at, created_by
		FROM transactions
		WHERE (sender_id = $1 OR receiver_id = $1)
	`
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", err)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, lastID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list transactions for user "+userID)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		var m models.Transaction
		var refType, refID sql.NullString
		if err := rows.Scan(
			&m.TransactionID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Amount,
			&m.Fee,
			&m.NetAmount,
			&m.Type,
			&m.Status,
			&refType,
			&refID,
			&m.Note,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		m.ReferenceType = refType.String
		m.ReferenceID = refID.String
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating transaction rows")
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
