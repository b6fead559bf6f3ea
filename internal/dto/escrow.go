package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// HoldEscrowRequest defines the data needed to open an escrow hold.
type HoldEscrowRequest struct {
	UserID        string          `json:"userID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	ReferenceType string          `json:"referenceType" binding:"required,oneof=service session booking subscription"`
	ReferenceID   string          `json:"referenceID" binding:"required"`
}

// ExpireEscrowsRequest triggers a sweep of stale holds.
type ExpireEscrowsRequest struct {
	// MaxAgeHours overrides the configured expiry age when > 0.
	MaxAgeHours int `json:"maxAgeHours" binding:"omitempty,min=1"`
}

// EscrowResponse defines the data returned for an escrow hold.
type EscrowResponse struct {
	EscrowID      string          `json:"escrowID"`
	UserID        string          `json:"userID"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	HeldAt        time.Time       `json:"heldAt"`
	ReleasedAt    *time.Time      `json:"releasedAt,omitempty"`
	RefundedAt    *time.Time      `json:"refundedAt,omitempty"`
}

// ToEscrowResponse converts a domain Escrow to its response DTO.
func ToEscrowResponse(e *domain.Escrow) EscrowResponse {
	return EscrowResponse{
		EscrowID:      e.EscrowID,
		UserID:        e.UserID,
		Amount:        e.Amount,
		Status:        string(e.Status),
		ReferenceType: string(e.ReferenceType),
		ReferenceID:   e.ReferenceID,
		HeldAt:        e.HeldAt,
		ReleasedAt:    e.ReleasedAt,
		RefundedAt:    e.RefundedAt,
	}
}
