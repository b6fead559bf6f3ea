package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// MintRequest issues new supply into the treasury.
type MintRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note   string          `json:"note"`
}

// DepositRequest issues supply straight into a user's available balance.
type DepositRequest struct {
	UserID string          `json:"userID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest burns supply out of a user's available balance.
type WithdrawRequest struct {
	UserID string          `json:"userID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// TreasuryResponse defines the data returned for the treasury.
type TreasuryResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalIssued   decimal.Decimal `json:"totalIssued"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToTreasuryResponse converts a domain Treasury to its response DTO.
func ToTreasuryResponse(t *domain.Treasury) TreasuryResponse {
	return TreasuryResponse{
		Balance:       t.Balance,
		TotalIssued:   t.TotalIssued,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}
