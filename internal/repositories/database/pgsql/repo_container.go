package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
)

// Repositories bundles the ledger store implementations sharing one pool.
type Repositories struct {
	TxManager       portsrepo.TxManager
	BalanceRepo     portsrepo.BalanceRepository
	TreasuryRepo    portsrepo.TreasuryRepository
	TransactionRepo portsrepo.TransactionRepository
	EscrowRepo      portsrepo.EscrowRepository
}

// NewRepositories wires the pgx repositories over a shared pool. lockTimeout
// is applied to every transaction the TxManager opens.
func NewRepositories(pool *pgxpool.Pool, lockTimeout time.Duration) Repositories {
	return Repositories{
		TxManager:       &BaseRepository{Pool: pool, LockTimeout: lockTimeout},
		BalanceRepo:     newPgxBalanceRepository(pool),
		TreasuryRepo:    newPgxTreasuryRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		EscrowRepo:      newPgxEscrowRepository(pool),
	}
}
