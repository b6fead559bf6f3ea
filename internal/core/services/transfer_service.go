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
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/middleware"
	"github.com/malihub/mali_ledger/internal/platform/config"
	"github.com/malihub/mali_ledger/internal/platform/metrics"
)

// moneyScale is the decimal precision of all persisted amounts. Fees are
// rounded to this scale so that fee + net == amount exactly.
const moneyScale = 8

// transferService executes direct peer-to-peer value moves with fee
// splitting. Stateless: all state lives in the ledger store.
type transferService struct {
	txm          portsrepo.TxManager
	balanceRepo  portsrepo.BalanceRepository
	treasuryRepo portsrepo.TreasuryRepository
	txnRepo      portsrepo.TransactionRepository
	cfg          config.LedgerConfig
	notifier     portssvc.BalanceNotifier
}

// NewTransferService creates a new TransferService.
func NewTransferService(txm portsrepo.TxManager, balanceRepo portsrepo.BalanceRepository, treasuryRepo portsrepo.TreasuryRepository, txnRepo portsrepo.TransactionRepository, cfg config.LedgerConfig, notifier portssvc.BalanceNotifier) portssvc.TransferSvcFacade {
	return &transferService{
		txm:          txm,
		balanceRepo:  balanceRepo,
		treasuryRepo: treasuryRepo,
		txnRepo:      txnRepo,
		cfg:          cfg,
		notifier:     notifier,
	}
}

// Ensure transferService implements the portssvc.TransferSvcFacade interface
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// splitFee computes the commission on amount at rate and the remaining net.
// The fee is rounded to the persisted scale so the two parts always add back
// up to the full amount.
func splitFee(amount, rate decimal.Decimal) (fee, net decimal.Decimal) {
	fee = amount.Mul(rate).Round(moneyScale)
	net = amount.Sub(fee)
	return fee, net
}

// recordTypeForReference maps a transfer reference to the record type. Plain
// transfers stay type=transfer; booking and subscription payments are typed
// after their deliverable.
func recordTypeForReference(refType domain.ReferenceType) domain.TransactionType {
	switch refType {
	case domain.RefBooking:
		return domain.TypeBooking
	case domain.RefSubscription:
		return domain.TypeSubscription
	default:
		return domain.TypeTransfer
	}
}

// Transfer debits the sender by the full amount, credits the receiver net of
// commission, and accrues the commission to the treasury, all inside one
// database transaction. Lock order: balance rows in ascending user_id,
// treasury last.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest, actorUserID string) (txn *domain.Transaction, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("transfer", err, started) }()

	if req.SenderID == req.ReceiverID {
		return nil, fmt.Errorf("%w: sender and receiver are both %s", apperrors.ErrSelfTransfer, req.SenderID)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}
	if req.Amount.LessThan(s.cfg.MinTransferAmount) {
		return nil, fmt.Errorf("%w: amount %s is below the minimum %s", apperrors.ErrInvalidAmount, req.Amount, s.cfg.MinTransferAmount)
	}

	fee, net := splitFee(req.Amount, s.cfg.TransferCommissionRate)
	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	balances, err := s.balanceRepo.LockBalances(ctx, tx, []string{req.SenderID, req.ReceiverID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock balances: %w", err)
	}

	sender, ok := balances[req.SenderID]
	if !ok {
		return nil, fmt.Errorf("%w: sender %s", apperrors.ErrAccountNotFound, req.SenderID)
	}
	if sender.Available.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: available %s, requested %s", apperrors.ErrInsufficientFunds, sender.Available, req.Amount)
	}

	// Receiver auto-provisioning is a documented exception to the
	// accounts-must-pre-exist rule, scoped to the transfer receiver only.
	if _, ok := balances[req.ReceiverID]; !ok {
		logger.Info("Auto-creating balance row for transfer receiver", slog.String("receiver_id", req.ReceiverID))
		if err := s.balanceRepo.EnsureBalance(ctx, tx, zeroBalance(req.ReceiverID, actorUserID, now)); err != nil {
			return nil, fmt.Errorf("failed to auto-create receiver balance: %w", err)
		}
	}

	if err := s.balanceRepo.AdjustBalance(ctx, tx, req.SenderID, req.Amount.Neg(), decimal.Zero, decimal.Zero, req.Amount, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.balanceRepo.AdjustBalance(ctx, tx, req.ReceiverID, net, decimal.Zero, net, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	if _, err := s.treasuryRepo.LockTreasury(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.treasuryRepo.AdjustTreasury(ctx, tx, fee, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &req.SenderID,
		ReceiverID:    &req.ReceiverID,
		Amount:        req.Amount,
		Fee:           fee,
		NetAmount:     net,
		Type:          recordTypeForReference(domain.ReferenceType(req.ReferenceType)),
		Status:        domain.StatusCompleted,
		ReferenceType: domain.ReferenceType(req.ReferenceType),
		ReferenceID:   req.ReferenceID,
		Note:          req.Note,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	// Strictly post-commit, best effort.
	s.notifier.BalanceChanged(ctx, req.SenderID, req.ReceiverID)

	logger.Info("Transfer completed",
		slog.String("transaction_id", record.TransactionID),
		slog.String("sender_id", req.SenderID),
		slog.String("receiver_id", req.ReceiverID),
		slog.String("amount", req.Amount.String()),
		slog.String("fee", fee.String()),
	)
	return &record, nil
}

// zeroBalance builds a fresh zero-value balance row.
func zeroBalance(userID, createdBy string, now time.Time) domain.Balance {
	return domain.Balance{
		UserID:         userID,
		Available:      decimal.Zero,
		Locked:         decimal.Zero,
		LifetimeEarned: decimal.Zero,
		LifetimeSpent:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
}
