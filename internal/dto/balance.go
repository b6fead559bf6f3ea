package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// ProvisionBalanceRequest creates the balance row for a newly created user.
type ProvisionBalanceRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// BalanceResponse defines the data returned for a user balance.
type BalanceResponse struct {
	UserID         string          `json:"userID"`
	Available      decimal.Decimal `json:"available"`
	Locked         decimal.Decimal `json:"locked"`
	LifetimeEarned decimal.Decimal `json:"lifetimeEarned"`
	LifetimeSpent  decimal.Decimal `json:"lifetimeSpent"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToBalanceResponse converts a domain Balance to its response DTO.
func ToBalanceResponse(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID,
		Available:      b.Available,
		Locked:         b.Locked,
		LifetimeEarned: b.LifetimeEarned,
		LifetimeSpent:  b.LifetimeSpent,
		UpdatedAt:      b.LastUpdatedAt,
	}
}
