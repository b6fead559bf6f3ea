package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditReport is the result of a lockless reconciliation pass. Difference is
// OfficialSupply - (UserTotal + TreasuryTotal); a persistent non-zero value
// beyond the configured epsilon means value was created or destroyed outside
// the mint path.
type AuditReport struct {
	UserTotal      decimal.Decimal `json:"userTotal"`
	TreasuryTotal  decimal.Decimal `json:"treasuryTotal"`
	OfficialSupply decimal.Decimal `json:"officialSupply"`
	Difference     decimal.Decimal `json:"difference"`
	Balanced       bool            `json:"balanced"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}
