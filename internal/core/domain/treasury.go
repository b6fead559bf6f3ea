package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treasury is the singleton platform account. Balance accumulates
// commissions; TotalIssued is the cumulative amount ever minted and is the
// baseline of the conservation invariant:
//
//	sum(available) + sum(locked) + Treasury.Balance == Treasury.TotalIssued
type Treasury struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalIssued   decimal.Decimal `json:"totalIssued"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}
