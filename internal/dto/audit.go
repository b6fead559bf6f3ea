package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// AuditReportResponse defines the data returned by the reconciliation pass.
type AuditReportResponse struct {
	UserTotal      decimal.Decimal `json:"userTotal"`
	TreasuryTotal  decimal.Decimal `json:"treasuryTotal"`
	OfficialSupply decimal.Decimal `json:"officialSupply"`
	Difference     decimal.Decimal `json:"difference"`
	Balanced       bool            `json:"balanced"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}

// ToAuditReportResponse converts a domain AuditReport to its response DTO.
func ToAuditReportResponse(r *domain.AuditReport) AuditReportResponse {
	return AuditReportResponse{
		UserTotal:      r.UserTotal,
		TreasuryTotal:  r.TreasuryTotal,
		OfficialSupply: r.OfficialSupply,
		Difference:     r.Difference,
		Balanced:       r.Balanced,
		GeneratedAt:    r.GeneratedAt,
	}
}
