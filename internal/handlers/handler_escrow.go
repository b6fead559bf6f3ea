package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/dto"
	"github.com/malihub/mali_ledger/internal/middleware"
)

// escrowHandler handles HTTP requests for the escrow hold lifecycle.
type escrowHandler struct {
	escrowService portssvc.EscrowSvcFacade
}

// newEscrowHandler creates a new escrowHandler.
func newEscrowHandler(escrowService portssvc.EscrowSvcFacade) *escrowHandler {
	return &escrowHandler{escrowService: escrowService}
}

// holdEscrow godoc
// @Summary Open an escrow hold
// @Description Moves the amount from the payer's available to locked balance and opens a hold
// @Tags escrows
// @Accept  json
// @Produce  json
// @Param   escrow body dto.HoldEscrowRequest true "Hold details"
// @Success 201 {object} dto.EscrowResponse "The opened hold"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Payer not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /ledger/escrows [post]
func (h *escrowHandler) holdEscrow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.HoldEscrowRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for HoldEscrow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	escrow, err := h.escrowService.Hold(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to open escrow hold")
		return
	}

	logger.Info("Escrow hold opened", slog.String("escrow_id", escrow.EscrowID))
	c.JSON(http.StatusCreated, dto.ToEscrowResponse(escrow))
}

// releaseEscrow godoc
// @Summary Release an escrow hold to the provider
// @Description Pays the resolved payee net of commission and marks the hold released; repeating the call returns the terminal record
// @Tags escrows
// @Produce  json
// @Param   escrowID path string true "Escrow ID"
// @Success 200 {object} dto.EscrowResponse "The released hold"
// @Failure 404 {object} map[string]string "Escrow or payee not found"
// @Failure 409 {object} map[string]string "Hold already refunded or expired"
// @Router /ledger/escrows/{escrowID}/release [post]
func (h *escrowHandler) releaseEscrow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	escrowID := c.Param("escrowID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	escrow, err := h.escrowService.Release(c.Request.Context(), escrowID, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to release escrow")
		return
	}

	logger.Info("Escrow released", slog.String("escrow_id", escrowID))
	c.JSON(http.StatusOK, dto.ToEscrowResponse(escrow))
}

// refundEscrow godoc
// @Summary Refund an escrow hold to the payer
// @Description Returns the locked funds in full and marks the hold refunded; repeating the call returns the terminal record
// @Tags escrows
// @Produce  json
// @Param   escrowID path string true "Escrow ID"
// @Success 200 {object} dto.EscrowResponse "The refunded hold"
// @Failure 404 {object} map[string]string "Escrow not found"
// @Failure 409 {object} map[string]string "Hold already released"
// @Router /ledger/escrows/{escrowID}/refund [post]
func (h *escrowHandler) refundEscrow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	escrowID := c.Param("escrowID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	escrow, err := h.escrowService.Refund(c.Request.Context(), escrowID, actorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to refund escrow")
		return
	}

	logger.Info("Escrow refunded", slog.String("escrow_id", escrowID))
	c.JSON(http.StatusOK, dto.ToEscrowResponse(escrow))
}

// registerEscrowRoutes registers escrow lifecycle routes.
func registerEscrowRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newEscrowHandler(services.Escrow)

	escrows := group.Group("/ledger/escrows")
	{
		escrows.POST("", h.holdEscrow)
		escrows.POST("/:escrowID/release", h.releaseEscrow)
		escrows.POST("/:escrowID/refund", h.refundEscrow)
	}
}
