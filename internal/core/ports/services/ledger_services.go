package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
	"github.com/malihub/mali_ledger/internal/dto"
)

// TransferSvcFacade executes direct peer-to-peer value moves.
type TransferSvcFacade interface {
	// Transfer debits the sender by the full amount, credits the
	// receiver net of commission and accrues the commission to the
	// treasury, all in one unit of work.
	Transfer(ctx context.Context, req dto.TransferRequest, actorUserID string) (*domain.Transaction, error)
}

// BalanceReaderSvc defines read operations on balances.
type BalanceReaderSvc interface {
	// GetBalance retrieves a user's balance.
	GetBalance(ctx context.Context, userID string) (*domain.Balance, error)

	// ListTransactions retrieves the user's audit-trail records, newest
	// first, with keyset pagination.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// BalanceWriterSvc defines provisioning of balance rows.
type BalanceWriterSvc interface {
	// Provision creates the zero-value balance row at user-creation
	// time. This is the account-existence signal from the identity store.
	Provision(ctx context.Context, userID string, actorUserID string) (*domain.Balance, error)
}

// BalanceSvcFacade combines balance read and provisioning operations.
type BalanceSvcFacade interface {
	BalanceReaderSvc
	BalanceWriterSvc
}

// EscrowSvcFacade drives the escrow hold state machine.
type EscrowSvcFacade interface {
	// Hold moves amount from the payer's available to locked balance and
	// opens a hold in held state.
	Hold(ctx context.Context, req dto.HoldEscrowRequest, actorUserID string) (*domain.Escrow, error)

	// Release resolves the payee from the hold's reference, pays them
	// net of escrow commission out of the payer's locked funds and
	// transitions the hold to released. Calling it again on a released
	// hold returns the terminal record unchanged.
	Release(ctx context.Context, escrowID string, actorUserID string) (*domain.Escrow, error)

	// Refund returns the locked funds to the payer in full and
	// transitions the hold to refunded. Idempotent like Release.
	Refund(ctx context.Context, escrowID string, actorUserID string) (*domain.Escrow, error)

	// ExpireStale refunds holds that have been held longer than maxAge
	// and marks them expired. Returns the number of holds swept.
	ExpireStale(ctx context.Context, maxAge time.Duration, actorUserID string) (int, error)
}

// TreasurySvcFacade holds the privileged supply operations.
type TreasurySvcFacade interface {
	// Mint issues new supply into the treasury. The only operation that
	// increases TotalIssued without touching a user balance.
	Mint(ctx context.Context, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error)

	// Deposit issues supply straight into a user's available balance
	// (external token purchase).
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error)

	// Withdraw burns supply out of a user's available balance (cash-out).
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error)

	// GetTreasury reads the treasury row.
	GetTreasury(ctx context.Context) (*domain.Treasury, error)
}

// AuditSvcFacade computes the supply reconciliation report.
type AuditSvcFacade interface {
	// Audit sums all balances plus the treasury and compares the total
	// against the issued supply. Lockless; small transient differences
	// during concurrent writes are expected, persistent ones are not.
	Audit(ctx context.Context) (*domain.AuditReport, error)
}
