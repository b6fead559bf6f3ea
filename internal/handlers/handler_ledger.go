package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/middleware"
)

// ledgerHandler handles HTTP requests for transfers, balances and audits.
type ledgerHandler struct {
	transferService portssvc.TransferSvcFacade
	balanceService  portssvc.BalanceSvcFacade
	auditService    portssvc.AuditSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(transferService portssvc.TransferSvcFacade, balanceService portssvc.BalanceSvcFacade, auditService portssvc.AuditSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		transferService: transferService,
		balanceService:  balanceService,
		auditService:    auditService,
	}
}

// createTransfer godoc
// @Summary Execute a peer-to-peer transfer
// @Description Debits the sender by the full amount, credits the receiver net of commission and accrues the commission to the treasury
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransactionResponse "The completed transfer record"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /ledger/transfers [post]
func (h *ledgerHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.TransferRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transferService.Transfer(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to execute transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// provisionBalance godoc
// @Summary Provision a balance row for a new user
// @Description Creates the zero-value balance row; idempotent for already provisioned users
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   balance body dto.ProvisionBalanceRequest true "User to provision"
// @Success 201 {object} dto.BalanceResponse "The provisioned balance"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /ledger/balances [post]
func (h *ledgerHandler) provisionBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ProvisionBalanceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ProvisionBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.balanceService.Provision(c.Request.Context(), req.UserID, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to provision balance")
		return
	}

	logger.Info("Balance provisioned", slog.String("user_id", req.UserID))
	c.JSON(http.StatusCreated, dto.ToBalanceResponse(balance))
}

// getBalance godoc
// @Summary Get a user's balance
// @Description Retrieves available, locked and lifetime figures for a user
// @Tags ledger
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.BalanceResponse "The user's balance"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /ledger/balances/{userID} [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	balance, err := h.balanceService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve balance")
		return
	}

	logger.Debug("Balance retrieved", slog.String("user_id", userID))
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// listTransactions godoc
// @Summary List a user's audit-trail records
// @Description Returns the user's records newest first with keyset pagination
// @Tags ledger
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse "One page of records"
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Router /ledger/balances/{userID}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	params := dto.ListTransactionsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.balanceService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getAuditReport godoc
// @Summary Run a supply reconciliation
// @Description Sums all balances plus the treasury and compares against issued supply
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.AuditReportResponse "The reconciliation report"
// @Failure 500 {object} map[string]string "Failed to run audit"
// @Router /ledger/audit [get]
func (h *ledgerHandler) getAuditReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.auditService.Audit(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to run audit")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditReportResponse(report))
}

// registerLedgerRoutes registers transfer, balance and audit routes.
func registerLedgerRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newLedgerHandler(services.Transfer, services.Balance, services.Audit)

	ledger := group.Group("/ledger")
	{
		ledger.POST("/transfers", h.createTransfer)
		ledger.POST("/balances", h.provisionBalance)
		ledger.GET("/balances/:userID", h.getBalance)
		ledger.GET("/balances/:userID/transactions", h.listTransactions)
		ledger.GET("/audit", h.getAuditReport)
	}
}
