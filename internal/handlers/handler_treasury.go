package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/middleware"
)

// treasuryHandler handles the privileged supply operations.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
	escrowService   portssvc.EscrowSvcFacade
}

// newTreasuryHandler creates a new treasuryHandler.
func newTreasuryHandler(treasuryService portssvc.TreasurySvcFacade, escrowService portssvc.EscrowSvcFacade) *treasuryHandler {
	return &treasuryHandler{
		treasuryService: treasuryService,
		escrowService:   escrowService,
	}
}

// getTreasury godoc
// @Summary Get the treasury account
// @Description Returns the treasury balance and the total issued supply
// @Tags treasury
// @Produce  json
// @Success 200 {object} dto.TreasuryResponse "The treasury account"
// @Router /treasury [get]
func (h *treasuryHandler) getTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	treasury, err := h.treasuryService.GetTreasury(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve treasury")
		return
	}

	c.JSON(http.StatusOK, dto.ToTreasuryResponse(treasury))
}

// mint godoc
// @Summary Mint new supply into the treasury
// @Description Issues new tokens; the only operation that raises the official supply without touching a user balance
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   mint body dto.MintRequest true "Mint details"
// @Success 200 {object} dto.TransactionResponse "The mint record"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Admin key invalid"
// @Router /treasury/mint [post]
func (h *treasuryHandler) mint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.MintRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Mint", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.Mint(c.Request.Context(), req.Amount, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to mint supply")
		return
	}

	logger.Info("Supply minted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deposit godoc
// @Summary Credit an external token purchase
// @Description Issues supply straight into a user's available balance
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.TransactionResponse "The deposit record"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /treasury/deposits [post]
func (h *treasuryHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.DepositRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.Deposit(c.Request.Context(), req.UserID, req.Amount, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to credit deposit")
		return
	}

	logger.Info("Deposit credited", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// withdraw godoc
// @Summary Burn supply for a cash-out
// @Description Removes tokens from a user's available balance and lowers the official supply
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} dto.TransactionResponse "The withdrawal record"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /treasury/withdrawals [post]
func (h *treasuryHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.WithdrawRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.Withdraw(c.Request.Context(), req.UserID, req.Amount, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to burn withdrawal")
		return
	}

	logger.Info("Withdrawal burned", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// expireEscrows godoc
// @Summary Sweep stale escrow holds
// @Description Refunds holds older than the configured (or requested) age and marks them expired
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   sweep body dto.ExpireEscrowsRequest false "Sweep parameters"
// @Success 200 {object} map[string]int "Number of holds swept"
// @Router /treasury/escrows/expire [post]
func (h *treasuryHandler) expireEscrows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// The body is optional; an empty sweep uses the configured expiry age.
	req := dto.ExpireEscrowsRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind JSON for ExpireEscrows", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	maxAge := time.Duration(req.MaxAgeHours) * time.Hour
	swept, err := h.escrowService.ExpireStale(c.Request.Context(), maxAge, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to sweep stale escrows")
		return
	}

	logger.Info("Stale escrows swept", slog.Int("swept", swept))
	c.JSON(http.StatusOK, gin.H{"swept": swept})
}

// registerTreasuryRoutes registers the admin-key guarded treasury routes.
func registerTreasuryRoutes(group *gin.RouterGroup, adminKeyHash string, services *portssvc.ServiceContainer) {
	h := newTreasuryHandler(services.Treasury, services.Escrow)

	treasury := group.Group("/treasury", middleware.AdminAuthMiddleware(adminKeyHash))
	{
		treasury.GET("", h.getTreasury)
		treasury.POST("/mint", h.mint)
		treasury.POST("/deposits", h.deposit)
		treasury.POST("/withdrawals", h.withdraw)
		treasury.POST("/escrows/expire", h.expireEscrows)
	}
}
