package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/middleware"
	"github.com/malihub/mali_ledger/internal/platform/metrics"
)

// treasuryService owns the supply-changing operations. Mint, Deposit and
// Withdraw are the only code paths that move TotalIssued.
type treasuryService struct {
	txm          portsrepo.TxManager
	balanceRepo  portsrepo.BalanceRepository
	treasuryRepo portsrepo.TreasuryRepository
	txnRepo      portsrepo.TransactionRepository
	notifier     portssvc.BalanceNotifier
}

// NewTreasuryService creates a new TreasuryService.
func NewTreasuryService(txm portsrepo.TxManager, balanceRepo portsrepo.BalanceRepository, treasuryRepo portsrepo.TreasuryRepository, txnRepo portsrepo.TransactionRepository, notifier portssvc.BalanceNotifier) portssvc.TreasurySvcFacade {
	return &treasuryService{
		txm:          txm,
		balanceRepo:  balanceRepo,
		treasuryRepo: treasuryRepo,
		txnRepo:      txnRepo,
		notifier:     notifier,
	}
}

// Ensure treasuryService implements the portssvc.TreasurySvcFacade interface
var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// Mint issues new supply into the treasury balance and raises TotalIssued by
// the same amount, keeping the conservation equation balanced.
func (s *treasuryService) Mint(ctx context.Context, amount decimal.Decimal, actorUserID string) (txn *domain.Transaction, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("mint", err, started) }()

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: mint amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	if _, err := s.treasuryRepo.LockTreasury(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.treasuryRepo.AdjustTreasury(ctx, tx, amount, amount, actorUserID, now); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        amount,
		Fee:           decimal.Zero,
		NetAmount:     amount,
		Type:          domain.TypeMint,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Supply minted",
		slog.String("amount", amount.String()),
		slog.String("actor", actorUserID),
	)
	return &record, nil
}

// Deposit issues supply directly into a user's available balance. It raises
// TotalIssued without touching the treasury balance, so the newly created
// value sits entirely on the user side of the equation.
func (s *treasuryService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (txn *domain.Transaction, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("deposit", err, started) }()

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	balances, err := s.balanceRepo.LockBalances(ctx, tx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	if _, ok := balances[userID]; !ok {
		if err := s.balanceRepo.EnsureBalance(ctx, tx, zeroBalance(userID, actorUserID, now)); err != nil {
			return nil, err
		}
	}
	if err := s.balanceRepo.AdjustBalance(ctx, tx, userID, amount, decimal.Zero, decimal.Zero, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	if _, err := s.treasuryRepo.LockTreasury(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.treasuryRepo.AdjustTreasury(ctx, tx, decimal.Zero, amount, actorUserID, now); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		ReceiverID:    &userID,
		Amount:        amount,
		Fee:           decimal.Zero,
		NetAmount:     amount,
		Type:          domain.TypeDeposit,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.BalanceChanged(ctx, userID)

	logger.Info("Deposit credited",
		slog.String("user_id", userID),
		slog.String("amount", amount.String()),
	)
	return &record, nil
}

// Withdraw burns supply out of a user's available balance. TotalIssued drops
// by the same amount; the value leaves the ledger entirely.
func (s *treasuryService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (txn *domain.Transaction, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("withdrawal", err, started) }()

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	balances, err := s.balanceRepo.LockBalances(ctx, tx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	balance, ok := balances[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrAccountNotFound, userID)
	}
	if balance.Available.LessThan(amount) {
		return nil, fmt.Errorf("%w: available %s, requested %s", apperrors.ErrInsufficientFunds, balance.Available, amount)
	}

	if err := s.balanceRepo.AdjustBalance(ctx, tx, userID, amount.Neg(), decimal.Zero, decimal.Zero, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	if _, err := s.treasuryRepo.LockTreasury(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.treasuryRepo.AdjustTreasury(ctx, tx, decimal.Zero, amount.Neg(), actorUserID, now); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &userID,
		Amount:        amount,
		Fee:           decimal.Zero,
		NetAmount:     amount,
		Type:          domain.TypeWithdrawal,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.BalanceChanged(ctx, userID)

	logger.Info("Withdrawal burned",
		slog.String("user_id", userID),
		slog.String("amount", amount.String()),
	)
	return &record, nil
}

// GetTreasury reads the treasury row without locking it.
func (s *treasuryService) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	return s.treasuryRepo.FindTreasury(ctx)
}
