package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// expireSweepBatch bounds how many stale holds one sweep transaction locks.
const expireSweepBatch = 200

// escrowService drives the escrow hold state machine:
// held -> released | refunded | expired, nothing else.
type escrowService struct {
	txm          portsrepo.TxManager
	balanceRepo  portsrepo.BalanceRepository
	treasuryRepo portsrepo.TreasuryRepository
	txnRepo      portsrepo.TransactionRepository
	escrowRepo   portsrepo.EscrowRepository
	resolver     portssvc.ReferenceResolver
	cfg          config.LedgerConfig
	notifier     portssvc.BalanceNotifier
}

// NewEscrowService creates a new EscrowService.
func NewEscrowService(txm portsrepo.TxManager, balanceRepo portsrepo.BalanceRepository, treasuryRepo portsrepo.TreasuryRepository, txnRepo portsrepo.TransactionRepository, escrowRepo portsrepo.EscrowRepository, resolver portssvc.ReferenceResolver, cfg config.LedgerConfig, notifier portssvc.BalanceNotifier) portssvc.EscrowSvcFacade {
	return &escrowService{
		txm:          txm,
		balanceRepo:  balanceRepo,
		treasuryRepo: treasuryRepo,
		txnRepo:      txnRepo,
		escrowRepo:   escrowRepo,
		resolver:     resolver,
		cfg:          cfg,
		notifier:     notifier,
	}
}

// Ensure escrowService implements the portssvc.EscrowSvcFacade interface
var _ portssvc.EscrowSvcFacade = (*escrowService)(nil)

// Hold moves amount from the payer's available balance to their locked
// balance and opens a hold in held state.
func (s *escrowService) Hold(ctx context.Context, req dto.HoldEscrowRequest, actorUserID string) (escrow *domain.Escrow, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("escrow_hold", err, started) }()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	balances, err := s.balanceRepo.LockBalances(ctx, tx, []string{req.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock payer balance: %w", err)
	}
	payer, ok := balances[req.UserID]
	if !ok {
		return nil, fmt.Errorf("%w: payer %s", apperrors.ErrAccountNotFound, req.UserID)
	}
	if payer.Available.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: available %s, requested %s", apperrors.ErrInsufficientFunds, payer.Available, req.Amount)
	}

	// Single-account move: available -= amount, locked += amount.
	if err := s.balanceRepo.AdjustBalance(ctx, tx, req.UserID, req.Amount.Neg(), req.Amount, decimal.Zero, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	hold := domain.Escrow{
		EscrowID:      uuid.NewString(),
		UserID:        req.UserID,
		Amount:        req.Amount,
		Status:        domain.EscrowHeld,
		ReferenceType: domain.ReferenceType(req.ReferenceType),
		ReferenceID:   req.ReferenceID,
		HeldAt:        now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	if err := s.escrowRepo.InsertEscrow(ctx, tx, hold); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &req.UserID,
		ReceiverID:    nil,
		Amount:        req.Amount,
		Fee:           decimal.Zero,
		NetAmount:     req.Amount,
		Type:          domain.TypeEscrowHold,
		Status:        domain.StatusCompleted,
		ReferenceType: hold.ReferenceType,
		ReferenceID:   hold.ReferenceID,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.BalanceChanged(ctx, req.UserID)

	logger.Info("Escrow hold opened",
		slog.String("escrow_id", hold.EscrowID),
		slog.String("payer_id", req.UserID),
		slog.String("amount", req.Amount.String()),
	)
	return &hold, nil
}

// Release pays the resolved payee net of escrow commission out of the
// payer's locked funds and transitions the hold to released.
//
// The payee is resolved before any lock is taken: the resolver is an
// external call and must not run while balance rows are locked. The status
// check is repeated under the escrow row lock, so a racing release loses
// cleanly.
func (s *escrowService) Release(ctx context.Context, escrowID string, actorUserID string) (escrow *domain.Escrow, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("escrow_release", err, started) }()

	current, err := s.escrowRepo.FindEscrowByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return s.terminalResult(current, domain.EscrowReleased)
	}

	payeeID, err := s.resolver.ResolvePayee(ctx, current.ReferenceType, current.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", apperrors.ErrProviderNotFound, current.ReferenceType, current.ReferenceID, err)
	}

	commission, net := splitFee(current.Amount, s.cfg.EscrowCommissionRate)
	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	locked, err := s.escrowRepo.LockEscrowByID(ctx, tx, escrowID)
	if err != nil {
		return nil, err
	}
	if locked.Status.Terminal() {
		// Lost the race to another release/refund.
		return s.terminalResult(locked, domain.EscrowReleased)
	}

	balances, err := s.balanceRepo.LockBalances(ctx, tx, []string{locked.UserID, payeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock balances: %w", err)
	}
	if _, ok := balances[locked.UserID]; !ok {
		return nil, fmt.Errorf("%w: payer %s", apperrors.ErrAccountNotFound, locked.UserID)
	}
	// Providers are provisioned accounts; no auto-create on this path.
	if _, ok := balances[payeeID]; !ok {
		return nil, fmt.Errorf("%w: payee %s", apperrors.ErrAccountNotFound, payeeID)
	}

	// Funds permanently leave the payer here; they left available at
	// hold time.
	if err := s.balanceRepo.AdjustBalance(ctx, tx, locked.UserID, decimal.Zero, locked.Amount.Neg(), decimal.Zero, locked.Amount, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.balanceRepo.AdjustBalance(ctx, tx, payeeID, net, decimal.Zero, net, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	if _, err := s.treasuryRepo.LockTreasury(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.treasuryRepo.AdjustTreasury(ctx, tx, commission, decimal.Zero, actorUserID, now); err != nil {
		return nil, err
	}

	if err := s.escrowRepo.SettleEscrow(ctx, tx, escrowID, domain.EscrowReleased, actorUserID, now); err != nil {
		return nil, err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &locked.UserID,
		ReceiverID:    &payeeID,
		Amount:        locked.Amount,
		Fee:           commission,
		NetAmount:     net,
		Type:          domain.TypeEscrowRelease,
		Status:        domain.StatusCompleted,
		ReferenceType: locked.ReferenceType,
		ReferenceID:   locked.ReferenceID,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	if err := s.txnRepo.InsertTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.BalanceChanged(ctx, locked.UserID, payeeID)

	released := *locked
	released.Status = domain.EscrowReleased
	released.ReleasedAt = &now
	released.LastUpdatedAt = now
	released.LastUpdatedBy = actorUserID

	logger.Info("Escrow released",
		slog.String("escrow_id", escrowID),
		slog.String("payer_id", locked.UserID),
		slog.String("payee_id", payeeID),
		slog.String("commission", commission.String()),
	)
	return &released, nil
}

// Refund returns the locked funds to the payer in full and transitions the
// hold to refunded. No fee is charged.
func (s *escrowService) Refund(ctx context.Context, escrowID string, actorUserID string) (escrow *domain.Escrow, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("escrow_refund", err, started) }()

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	locked, err := s.escrowRepo.LockEscrowByID(ctx, tx, escrowID)
	if err != nil {
		return nil, err
	}
	if locked.Status.Terminal() {
		return s.terminalResult(locked, domain.EscrowRefunded)
	}

	if err := s.refundHoldInTx(ctx, tx, locked, domain.EscrowRefunded, "", actorUserID, now); err != nil {
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.BalanceChanged(ctx, locked.UserID)

	refunded := *locked
	refunded.Status = domain.EscrowRefunded
	refunded.RefundedAt = &now
	refunded.LastUpdatedAt = now
	refunded.LastUpdatedBy = actorUserID

	logger.Info("Escrow refunded",
		slog.String("escrow_id", escrowID),
		slog.String("payer_id", locked.UserID),
		slog.String("amount", locked.Amount.String()),
	)
	return &refunded, nil
}

// ExpireStale refunds holds older than maxAge and marks them expired.
func (s *escrowService) ExpireStale(ctx context.Context, maxAge time.Duration, actorUserID string) (swept int, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("escrow_expire", err, started) }()

	if maxAge <= 0 {
		maxAge = s.cfg.EscrowExpiry
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer s.txm.Rollback(ctx, tx)

	stale, err := s.escrowRepo.LockStaleHeldEscrows(ctx, tx, cutoff, expireSweepBatch)
	if err != nil {
		return 0, err
	}

	payers := make([]string, 0, len(stale))
	for i := range stale {
		hold := stale[i]
		if err := s.refundHoldInTx(ctx, tx, &hold, domain.EscrowExpired, "escrow expired", actorUserID, now); err != nil {
			return 0, err
		}
		payers = append(payers, hold.UserID)
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return 0, err
	}

	if len(payers) > 0 {
		s.notifier.BalanceChanged(ctx, payers...)
	}

	logger.Info("Stale escrow sweep finished", slog.Int("swept", len(stale)), slog.Time("cutoff", cutoff))
	return len(stale), nil
}

// refundHoldInTx moves a held amount back from locked to available and
// settles the hold into status (refunded or expired), within the caller's
// transaction. The hold row must already be locked.
func (s *escrowService) refundHoldInTx(ctx context.Context, tx pgx.Tx, hold *domain.Escrow, status domain.EscrowStatus, note string, actorUserID string, now time.Time) error {
	if _, err := s.balanceRepo.LockBalances(ctx, tx, []string{hold.UserID}); err != nil {
		return fmt.Errorf("failed to lock payer balance: %w", err)
	}
	if err := s.balanceRepo.AdjustBalance(ctx, tx, hold.UserID, hold.Amount, hold.Amount.Neg(), decimal.Zero, decimal.Zero, actorUserID, now); err != nil {
		return err
	}
	if err := s.escrowRepo.SettleEscrow(ctx, tx, hold.EscrowID, status, actorUserID, now); err != nil {
		return err
	}

	record := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &hold.UserID,
		ReceiverID:    &hold.UserID,
		Amount:        hold.Amount,
		Fee:           decimal.Zero,
		NetAmount:     hold.Amount,
		Type:          domain.TypeRefund,
		Status:        domain.StatusCompleted,
		ReferenceType: hold.ReferenceType,
		ReferenceID:   hold.ReferenceID,
		Note:          note,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}
	return s.txnRepo.InsertTransaction(ctx, tx, record)
}

// terminalResult implements the idempotency contract: re-requesting the
// transition a terminal hold already took returns the record unchanged;
// requesting the conflicting transition is an InvalidState error.
func (s *escrowService) terminalResult(hold *domain.Escrow, wanted domain.EscrowStatus) (*domain.Escrow, error) {
	if hold.Status == wanted {
		return hold, nil
	}
	// Expired holds behave like refunded ones for refund retries.
	if wanted == domain.EscrowRefunded && hold.Status == domain.EscrowExpired {
		return hold, nil
	}
	return nil, fmt.Errorf("%w: escrow %s is %s", apperrors.ErrInvalidEscrowState, hold.EscrowID, hold.Status)
}
