package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies an economically meaningful ledger event.
type TransactionType string

const (
	TypeTransfer      TransactionType = "transfer"
	TypeEscrowHold    TransactionType = "escrow_hold"
	TypeEscrowRelease TransactionType = "escrow_release"
	TypeRefund        TransactionType = "refund"
	TypeDeposit       TransactionType = "deposit"
	TypeWithdrawal    TransactionType = "withdrawal"
	TypeCommission    TransactionType = "commission"
	TypeMint          TransactionType = "mint"
	TypeSubscription  TransactionType = "subscription"
	TypeBooking       TransactionType = "booking"
)

// TransactionStatus is the lifecycle state of a transaction record.
// Records are written as completed inside the same database transaction as
// the balance mutation they document; a completed record is immutable.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusReversed  TransactionStatus = "reversed"
)

// ReferenceType identifies the kind of external deliverable a record or an
// escrow hold points at. The ledger never branches on the reference beyond
// escrow payee resolution.
type ReferenceType string

const (
	RefService      ReferenceType = "service"
	RefSession      ReferenceType = "session"
	RefBooking      ReferenceType = "booking"
	RefSubscription ReferenceType = "subscription"
)

// Transaction is one append-only row in the audit trail. A nil SenderID or
// ReceiverID means the system/treasury side.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	SenderID      *string           `json:"senderID,omitempty"`
	ReceiverID    *string           `json:"receiverID,omitempty"`
	Amount        decimal.Decimal   `json:"amount"`
	Fee           decimal.Decimal   `json:"fee"`
	NetAmount     decimal.Decimal   `json:"netAmount"` // amount - fee
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	ReferenceType ReferenceType     `json:"referenceType,omitempty"`
	ReferenceID   string            `json:"referenceID,omitempty"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}
