package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/middleware"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// balanceService serves balance reads and account provisioning.
type balanceService struct {
	txm         portsrepo.TxManager
	balanceRepo portsrepo.BalanceRepository
	txnRepo     portsrepo.TransactionRepository
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(txm portsrepo.TxManager, balanceRepo portsrepo.BalanceRepository, txnRepo portsrepo.TransactionRepository) portssvc.BalanceSvcFacade {
	return &balanceService{
		txm:         txm,
		balanceRepo: balanceRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance retrieves a user's balance.
func (s *balanceService) GetBalance(ctx context.Context, userID string) (*domain.Balance, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	return s.balanceRepo.FindBalanceByUserID(ctx, userID)
}

// ListTransactions retrieves the user's audit-trail records, newest first.
func (s *balanceService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// Provision creates the zero-value balance row for a newly created user.
// Provisioning an already provisioned user returns the existing row.
func (s *balanceService) Provision(ctx context.Context, userID string, actorUserID string) (*domain.Balance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txm.Rollback(ctx, tx)

	balance := zeroBalance(userID, actorUserID, now)
	if err := s.balanceRepo.CreateBalance(ctx, tx, balance); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Provisioning is idempotent.
			return s.balanceRepo.FindBalanceByUserID(ctx, userID)
		}
		return nil, err
	}

	if err := s.txm.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Balance provisioned", slog.String("user_id", userID))
	return &balance, nil
}
