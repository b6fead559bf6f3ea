package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treasury is the singleton treasury row (id is always 1).
type Treasury struct {
	ID            int             `db:"id"`
	Balance       decimal.Decimal `db:"balance"`
	TotalIssued   decimal.Decimal `db:"total_issued"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
	LastUpdatedBy string          `db:"last_updated_by"`
}
