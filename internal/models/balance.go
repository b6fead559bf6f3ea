package models

import "github.com/shopspring/decimal"

// Balance is the persisted per-user balance row. available and locked carry
// CHECK (>= 0) constraints in the schema as a second line of defence behind
// the service-level validation.
type Balance struct {
	UserID         string          `db:"user_id"`
	Available      decimal.Decimal `db:"available"`
	Locked         decimal.Decimal `db:"locked"`
	LifetimeEarned decimal.Decimal `db:"lifetime_earned"`
	LifetimeSpent  decimal.Decimal `db:"lifetime_spent"`
	AuditFields
}
