package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/malihub/mali_ledger/internal/core/domain"
	portsrepo "github.com/malihub/mali_ledger/internal/core/ports/repositories"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/middleware"
	"github.com/malihub/mali_ledger/internal/platform/config"
	"github.com/malihub/mali_ledger/internal/platform/metrics"
)

// auditService reconciles circulating value against issued supply.
type auditService struct {
	balanceRepo  portsrepo.BalanceRepository
	treasuryRepo portsrepo.TreasuryRepository
	cfg          config.LedgerConfig
}

// NewAuditService creates a new AuditService.
func NewAuditService(balanceRepo portsrepo.BalanceRepository, treasuryRepo portsrepo.TreasuryRepository, cfg config.LedgerConfig) portssvc.AuditSvcFacade {
	return &auditService{
		balanceRepo:  balanceRepo,
		treasuryRepo: treasuryRepo,
		cfg:          cfg,
	}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Audit sums every account's available and locked balance plus the treasury
// balance and compares the total with TotalIssued. The two reads are not in
// one snapshot, so a concurrent write can produce a transient difference;
// only a persistent one signals corruption.
func (s *auditService) Audit(ctx context.Context) (report *domain.AuditReport, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()
	defer func() { metrics.ObserveOperation("audit", err, started) }()

	available, lockedSum, err := s.balanceRepo.SumBalances(ctx)
	if err != nil {
		return nil, err
	}
	treasury, err := s.treasuryRepo.FindTreasury(ctx)
	if err != nil {
		return nil, err
	}

	userTotal := available.Add(lockedSum)
	difference := treasury.TotalIssued.Sub(userTotal).Sub(treasury.Balance)
	balanced := difference.Abs().LessThanOrEqual(s.cfg.AuditEpsilon)

	diffFloat, _ := difference.Float64()
	metrics.AuditDifference.Set(diffFloat)

	if !balanced {
		logger.Error("Supply reconciliation out of balance",
			slog.String("difference", difference.String()),
			slog.String("user_total", userTotal.String()),
			slog.String("treasury_balance", treasury.Balance.String()),
			slog.String("official_supply", treasury.TotalIssued.String()),
		)
	}

	return &domain.AuditReport{
		UserTotal:      userTotal,
		TreasuryTotal:  treasury.Balance,
		OfficialSupply: treasury.TotalIssued,
		Difference:     difference,
		Balanced:       balanced,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
