package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EscrowStatus is the state of an escrow hold. The only legal transitions
// are held -> released, held -> refunded and held -> expired; every terminal
// state is immutable.
type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
	EscrowExpired  EscrowStatus = "expired"
)

// Terminal reports whether s is a terminal escrow state.
func (s EscrowStatus) Terminal() bool {
	return s != EscrowHeld
}

// Escrow is a pending commitment of a payer's funds awaiting completion or
// cancellation of an external deliverable.
type Escrow struct {
	EscrowID      string          `json:"escrowID"`
	UserID        string          `json:"userID"` // payer
	Amount        decimal.Decimal `json:"amount"`
	Status        EscrowStatus    `json:"status"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	HeldAt        time.Time       `json:"heldAt"`
	ReleasedAt    *time.Time      `json:"releasedAt,omitempty"`
	RefundedAt    *time.Time      `json:"refundedAt,omitempty"`
	AuditFields
}
