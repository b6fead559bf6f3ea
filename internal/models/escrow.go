package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Escrow is the persisted escrow hold row.
type Escrow struct {
	EscrowID      string          `db:"escrow_id"`
	UserID        string          `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   string          `db:"reference_id"`
	HeldAt        time.Time       `db:"held_at"`
	ReleasedAt    *time.Time      `db:"released_at"`
	RefundedAt    *time.Time      `db:"refunded_at"`
	AuditFields
}
