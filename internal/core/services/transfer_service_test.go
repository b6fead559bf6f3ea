package services_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/core/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/platform/config"
)

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		TransferCommissionRate: decimal.RequireFromString("0.001"),
		EscrowCommissionRate:   decimal.RequireFromString("0.05"),
		MinTransferAmount:      decimal.RequireFromString("1"),
		LockTimeout:            3 * time.Second,
		AuditEpsilon:           decimal.RequireFromString("0.00000001"),
		EscrowExpiry:           720 * time.Hour,
	}
}

type TransferServiceTestSuite struct {
	suite.Suite
	store    *memStore
	notifier *recordingNotifier
	service  portssvc.TransferSvcFacade
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.notifier = &recordingNotifier{}
	suite.service = services.NewTransferService(suite.store, suite.store, suite.store, suite.store, testLedgerConfig(), suite.notifier)
}

func (suite *TransferServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("500"))
	suite.store.seedBalance("bob", decimal.Zero)

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.RequireFromString("100"),
	}, "alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.Fee.Equal(decimal.RequireFromString("0.1")), "fee was %s", txn.Fee)
	suite.True(txn.NetAmount.Equal(decimal.RequireFromString("99.9")), "net was %s", txn.NetAmount)
	suite.Equal(domain.TypeTransfer, txn.Type)
	suite.Equal(domain.StatusCompleted, txn.Status)

	suite.True(suite.store.balance("alice").Available.Equal(decimal.RequireFromString("400")))
	suite.True(suite.store.balance("bob").Available.Equal(decimal.RequireFromString("99.9")))
	suite.True(suite.store.balance("bob").LifetimeEarned.Equal(decimal.RequireFromString("99.9")))
	suite.True(suite.store.balance("alice").LifetimeSpent.Equal(decimal.RequireFromString("100")))
	suite.True(suite.store.treasuryRow().Balance.Equal(decimal.RequireFromString("0.1")))
	suite.True(suite.store.conserved())
}

func (suite *TransferServiceTestSuite) TestTransfer_FeeAndNetSumToAmount() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("1000"))
	suite.store.seedBalance("bob", decimal.Zero)

	// An amount whose raw fee needs rounding.
	amount := decimal.RequireFromString("33.33333333")
	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     amount,
	}, "alice")

	suite.Require().NoError(err)
	suite.True(txn.Fee.Add(txn.NetAmount).Equal(amount), "fee %s + net %s != %s", txn.Fee, txn.NetAmount, amount)
	suite.True(suite.store.conserved())
}

func (suite *TransferServiceTestSuite) TestTransfer_SelfTransferRejected() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "alice",
		Amount:     decimal.RequireFromString("10"),
	}, "alice")

	suite.Require().ErrorIs(err, apperrors.ErrSelfTransfer)
	suite.Equal(0, suite.store.transactionCount())
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("50"))
	suite.store.seedBalance("bob", decimal.Zero)

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.RequireFromString("50.00000001"),
	}, "alice")

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.store.balance("alice").Available.Equal(decimal.RequireFromString("50")))
	suite.Empty(suite.notifier.notified())
	suite.True(suite.store.conserved())
}

func (suite *TransferServiceTestSuite) TestTransfer_BelowMinimumRejected() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))
	suite.store.seedBalance("bob", decimal.Zero)

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.RequireFromString("0.5"),
	}, "alice")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *TransferServiceTestSuite) TestTransfer_NonPositiveAmountRejected() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))

	for _, amount := range []string{"0", "-10"} {
		_, err := suite.service.Transfer(ctx, dto.TransferRequest{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.RequireFromString(amount),
		}, "alice")
		suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount, "amount %s", amount)
	}
}

func (suite *TransferServiceTestSuite) TestTransfer_UnknownSenderRejected() {
	ctx := context.Background()
	suite.store.seedBalance("bob", decimal.Zero)

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "ghost",
		ReceiverID: "bob",
		Amount:     decimal.RequireFromString("10"),
	}, "ghost")

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *TransferServiceTestSuite) TestTransfer_ReceiverAutoProvisioned() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "newcomer",
		Amount:     decimal.RequireFromString("10"),
	}, "alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(suite.store.balance("newcomer").Available.Equal(decimal.RequireFromString("9.99")))
	suite.True(suite.store.conserved())
}

func (suite *TransferServiceTestSuite) TestTransfer_ReferenceTypesRecordType() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))
	suite.store.seedBalance("bob", decimal.Zero)

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:      "alice",
		ReceiverID:    "bob",
		Amount:        decimal.RequireFromString("20"),
		ReferenceType: string(domain.RefBooking),
		ReferenceID:   "bk-1",
	}, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.TypeBooking, txn.Type)
	suite.Equal(domain.RefBooking, txn.ReferenceType)
}

func (suite *TransferServiceTestSuite) TestTransfer_NotifiesBothParties() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("100"))
	suite.store.seedBalance("bob", decimal.Zero)

	_, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.RequireFromString("10"),
	}, "alice")

	suite.Require().NoError(err)
	events := suite.notifier.notified()
	suite.Require().Len(events, 1)
	suite.ElementsMatch([]string{"alice", "bob"}, events[0])
}

// TestTransfer_ConcurrentConservation hammers the service from many
// goroutines and checks that no value was created or destroyed and no
// balance went negative.
func (suite *TransferServiceTestSuite) TestTransfer_ConcurrentConservation() {
	ctx := context.Background()
	users := []string{"u1", "u2", "u3", "u4"}
	for _, u := range users {
		suite.store.seedBalance(u, decimal.RequireFromString("1000"))
	}

	const workers = 10
	const transfersPerWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < transfersPerWorker; i++ {
				from := users[rng.Intn(len(users))]
				to := users[rng.Intn(len(users))]
				if from == to {
					continue
				}
				amount := decimal.NewFromInt(int64(1 + rng.Intn(200)))
				// Insufficient funds is an acceptable outcome here.
				_, _ = suite.service.Transfer(ctx, dto.TransferRequest{
					SenderID:   from,
					ReceiverID: to,
					Amount:     amount,
				}, from)
			}
		}(int64(w))
	}
	wg.Wait()

	suite.True(suite.store.conserved(), "value was created or destroyed")
	for _, u := range users {
		b := suite.store.balance(u)
		suite.False(b.Available.IsNegative(), "%s available went negative: %s", u, b.Available)
		suite.False(b.Locked.IsNegative(), "%s locked went negative: %s", u, b.Locked)
	}
}

// TestTransfer_ConcurrentExactlyFundedSender fires 100 concurrent 1-unit
// transfers out of a sender holding exactly 50: precisely 50 must succeed,
// the other 50 must fail with ErrInsufficientFunds, and the sender must
// land on zero.
func (suite *TransferServiceTestSuite) TestTransfer_ConcurrentExactlyFundedSender() {
	ctx := context.Background()
	suite.store.seedBalance("alice", decimal.RequireFromString("50"))

	const attempts = 100

	var wg sync.WaitGroup
	var successes, insufficient atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := suite.service.Transfer(ctx, dto.TransferRequest{
				SenderID:   "alice",
				ReceiverID: fmt.Sprintf("receiver-%d", n),
				Amount:     decimal.NewFromInt(1),
			}, "alice")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				insufficient.Add(1)
			default:
				suite.Fail("unexpected transfer error", err.Error())
			}
		}(i)
	}
	wg.Wait()

	suite.Equal(int32(50), successes.Load(), "successful transfers")
	suite.Equal(int32(50), insufficient.Load(), "insufficient-funds rejections")
	suite.True(suite.store.balance("alice").Available.IsZero(),
		"sender available was %s", suite.store.balance("alice").Available)
	suite.True(suite.store.conserved(), "value was created or destroyed")
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
