package domain

import "github.com/shopspring/decimal"

// Balance is a user's token holdings, split into an immediately spendable
// part and a part locked in escrow. Both parts are never negative.
type Balance struct {
	UserID         string          `json:"userID"`
	Available      decimal.Decimal `json:"available"`
	Locked         decimal.Decimal `json:"locked"`
	LifetimeEarned decimal.Decimal `json:"lifetimeEarned"` // monotonic, informational only
	LifetimeSpent  decimal.Decimal `json:"lifetimeSpent"`  // monotonic, informational only
	AuditFields
}

// Total returns available + locked.
func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.Locked)
}
