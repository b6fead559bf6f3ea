package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted append-only audit-trail row. sender_id and
// receiver_id are NULL for the system/treasury side.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	SenderID      *string         `db:"sender_id"`
	ReceiverID    *string         `db:"receiver_id"`
	Amount        decimal.Decimal `db:"amount"`
	Fee           decimal.Decimal `db:"fee"`
	NetAmount     decimal.Decimal `db:"net_amount"`
	Type          string          `db:"type"`
	Status        string          `db:"status"`
	ReferenceType string          `db:"reference_type"` // empty when no reference
	ReferenceID   string          `db:"reference_id"`
	Note          string          `db:"note"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
