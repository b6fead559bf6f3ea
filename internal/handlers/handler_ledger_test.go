package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/handlers"
	"github.com/malihub/mali_ledger/internal/platform/config"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req dto.TransferRequest, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalance(ctx context.Context, userID string) (*domain.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}
func (m *MockBalanceService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockBalanceService) Provision(ctx context.Context, userID string, actorUserID string) (*domain.Balance, error) {
	args := m.Called(ctx, userID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock EscrowService ---
type MockEscrowService struct {
	mock.Mock
}

func (m *MockEscrowService) Hold(ctx context.Context, req dto.HoldEscrowRequest, actorUserID string) (*domain.Escrow, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escrow), args.Error(1)
}
func (m *MockEscrowService) Release(ctx context.Context, escrowID string, actorUserID string) (*domain.Escrow, error) {
	args := m.Called(ctx, escrowID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escrow), args.Error(1)
}
func (m *MockEscrowService) Refund(ctx context.Context, escrowID string, actorUserID string) (*domain.Escrow, error) {
	args := m.Called(ctx, escrowID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escrow), args.Error(1)
}
func (m *MockEscrowService) ExpireStale(ctx context.Context, maxAge time.Duration, actorUserID string) (int, error) {
	args := m.Called(ctx, maxAge, actorUserID)
	return args.Int(0), args.Error(1)
}

var _ portssvc.EscrowSvcFacade = (*MockEscrowService)(nil)

// --- Mock TreasuryService ---
type MockTreasuryService struct {
	mock.Mock
}

func (m *MockTreasuryService) Mint(ctx context.Context, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, amount, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTreasuryService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTreasuryService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTreasuryService) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

var _ portssvc.TreasurySvcFacade = (*MockTreasuryService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Audit(ctx context.Context) (*domain.AuditReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditReport), args.Error(1)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockTransfer *MockTransferService
	mockBalance  *MockBalanceService
	mockEscrow   *MockEscrowService
	mockTreasury *MockTreasuryService
	mockAudit    *MockAuditService
	jwtSecret    string
	jwtIssuer    string
	adminKey     string
}

// generateTestToken creates a dummy service JWT for testing.
func (suite *LedgerHandlerTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    suite.jwtIssuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.jwtIssuer = "mali-test"
	suite.adminKey = "test-admin-key"

	hash, err := bcrypt.GenerateFromPassword([]byte(suite.adminKey), bcrypt.MinCost)
	suite.Require().NoError(err)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		JWTIssuer:    suite.jwtIssuer,
		AdminKeyHash: string(hash),
		IsProduction: true, // no swagger routes in tests
	}

	suite.mockTransfer = new(MockTransferService)
	suite.mockBalance = new(MockBalanceService)
	suite.mockEscrow = new(MockEscrowService)
	suite.mockTreasury = new(MockTreasuryService)
	suite.mockAudit = new(MockAuditService)

	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Transfer: suite.mockTransfer,
		Balance:  suite.mockBalance,
		Escrow:   suite.mockEscrow,
		Treasury: suite.mockTreasury,
		Audit:    suite.mockAudit,
	})
}

func (suite *LedgerHandlerTestSuite) doJSON(method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestCreateTransfer_Success() {
	senderID := uuid.NewString()
	receiverID := uuid.NewString()
	serviceID := uuid.NewString()

	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      &senderID,
		ReceiverID:    &receiverID,
		Amount:        decimal.NewFromInt(100),
		Fee:           decimal.RequireFromString("0.1"),
		NetAmount:     decimal.RequireFromString("99.9"),
		Type:          domain.TypeTransfer,
		Status:        domain.StatusCompleted,
		CreatedAt:     time.Now(),
	}

	suite.mockTransfer.On("Transfer",
		mock.Anything,
		mock.MatchedBy(func(r dto.TransferRequest) bool {
			return r.SenderID == senderID && r.ReceiverID == receiverID && r.Amount.Equal(decimal.NewFromInt(100))
		}),
		serviceID,
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/ledger/transfers", dto.TransferRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     decimal.NewFromInt(100),
	}, map[string]string{"Authorization": "Bearer " + suite.generateTestToken(serviceID)})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.True(resp.Fee.Equal(expected.Fee))
	suite.True(resp.NetAmount.Equal(expected.NetAmount))

	suite.mockTransfer.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestCreateTransfer_MissingToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/ledger/transfers", dto.TransferRequest{
		SenderID:   "a",
		ReceiverID: "b",
		Amount:     decimal.NewFromInt(1),
	}, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransfer.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *LedgerHandlerTestSuite) TestCreateTransfer_NonPositiveAmountRejectedAtBinding() {
	w := suite.doJSON(http.MethodPost, "/api/v1/ledger/transfers", map[string]any{
		"senderID":   "a",
		"receiverID": "b",
		"amount":     "-5",
	}, map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransfer.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *LedgerHandlerTestSuite) TestCreateTransfer_InsufficientFunds() {
	suite.mockTransfer.On("Transfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/ledger/transfers", dto.TransferRequest{
		SenderID:   "a",
		ReceiverID: "b",
		Amount:     decimal.NewFromInt(100),
	}, map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockTransfer.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetBalance_NotFound() {
	suite.mockBalance.On("GetBalance", mock.Anything, "ghost").
		Return(nil, apperrors.ErrAccountNotFound).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/ledger/balances/ghost", nil,
		map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockBalance.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestReleaseEscrow_Conflict() {
	suite.mockEscrow.On("Release", mock.Anything, "esc-1", "svc").
		Return(nil, apperrors.ErrInvalidEscrowState).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/ledger/escrows/esc-1/release", nil,
		map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockEscrow.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestMint_RequiresAdminKey() {
	w := suite.doJSON(http.MethodPost, "/api/v1/treasury/mint", dto.MintRequest{
		Amount: decimal.NewFromInt(1000),
	}, map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTreasury.AssertNotCalled(suite.T(), "Mint")
}

func (suite *LedgerHandlerTestSuite) TestMint_WrongAdminKeyForbidden() {
	w := suite.doJSON(http.MethodPost, "/api/v1/treasury/mint", dto.MintRequest{
		Amount: decimal.NewFromInt(1000),
	}, map[string]string{
		"Authorization": "Bearer " + suite.generateTestToken("svc"),
		"X-Admin-Key":   "wrong-key",
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockTreasury.AssertNotCalled(suite.T(), "Mint")
}

func (suite *LedgerHandlerTestSuite) TestMint_Success() {
	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        decimal.NewFromInt(1000),
		Fee:           decimal.Zero,
		NetAmount:     decimal.NewFromInt(1000),
		Type:          domain.TypeMint,
		Status:        domain.StatusCompleted,
		CreatedAt:     time.Now(),
	}
	suite.mockTreasury.On("Mint", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(1000)) }),
		"svc",
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/treasury/mint", dto.MintRequest{
		Amount: decimal.NewFromInt(1000),
	}, map[string]string{
		"Authorization": "Bearer " + suite.generateTestToken("svc"),
		"X-Admin-Key":   suite.adminKey,
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal(string(domain.TypeMint), resp.Type)

	suite.mockTreasury.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetAudit_Success() {
	report := &domain.AuditReport{
		UserTotal:      decimal.NewFromInt(800),
		TreasuryTotal:  decimal.NewFromInt(200),
		OfficialSupply: decimal.NewFromInt(1000),
		Difference:     decimal.Zero,
		Balanced:       true,
		GeneratedAt:    time.Now(),
	}
	suite.mockAudit.On("Audit", mock.Anything).Return(report, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/ledger/audit", nil,
		map[string]string{"Authorization": "Bearer " + suite.generateTestToken("svc")})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AuditReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.True(resp.Difference.Equal(decimal.Zero))

	suite.mockAudit.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
