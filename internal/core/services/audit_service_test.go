package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/core/services"
)

type AuditServiceTestSuite struct {
	suite.Suite
	store   *memStore
	service portssvc.AuditSvcFacade
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.service = services.NewAuditService(suite.store, suite.store, testLedgerConfig())
}

func (suite *AuditServiceTestSuite) TestAudit_BalancedLedger() {
	suite.store.seedBalance("alice", decimal.RequireFromString("300"))
	suite.store.seedBalance("bob", decimal.RequireFromString("700"))

	report, err := suite.service.Audit(context.Background())

	suite.Require().NoError(err)
	suite.True(report.Balanced)
	suite.True(report.UserTotal.Equal(decimal.RequireFromString("1000")))
	suite.True(report.OfficialSupply.Equal(decimal.RequireFromString("1000")))
	suite.True(report.Difference.IsZero())
	suite.False(report.GeneratedAt.IsZero())
}

func (suite *AuditServiceTestSuite) TestAudit_CountsLockedFunds() {
	suite.store.seedBalance("alice", decimal.RequireFromString("500"))

	// Move part of the balance to locked directly; conservation must still
	// hold since locked value is still in circulation.
	b := suite.store.balance("alice")
	b.Available = decimal.RequireFromString("300")
	b.Locked = decimal.RequireFromString("200")
	suite.store.balances["alice"] = b

	report, err := suite.service.Audit(context.Background())

	suite.Require().NoError(err)
	suite.True(report.Balanced, "difference was %s", report.Difference)
	suite.True(report.UserTotal.Equal(decimal.RequireFromString("500")))
}

func (suite *AuditServiceTestSuite) TestAudit_DetectsLeak() {
	suite.store.seedBalance("alice", decimal.RequireFromString("1000"))

	// Corrupt the store: value disappears without a matching burn.
	b := suite.store.balance("alice")
	b.Available = decimal.RequireFromString("999")
	suite.store.balances["alice"] = b

	report, err := suite.service.Audit(context.Background())

	suite.Require().NoError(err)
	suite.False(report.Balanced)
	suite.True(report.Difference.Equal(decimal.RequireFromString("1")), "difference was %s", report.Difference)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
