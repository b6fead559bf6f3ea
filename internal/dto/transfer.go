package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// TransferRequest defines the data needed for a peer-to-peer transfer.
// ReferenceType/ReferenceID are optional; when the reference is a booking or
// subscription the record is typed accordingly instead of plain transfer.
type TransferRequest struct {
	SenderID      string          `json:"senderID" binding:"required"`
	ReceiverID    string          `json:"receiverID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note          string          `json:"note"`
	ReferenceType string          `json:"referenceType" binding:"omitempty,oneof=service session booking subscription"`
	ReferenceID   string          `json:"referenceID"`
}

// TransactionResponse defines the data returned for an audit-trail record.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	SenderID      *string         `json:"senderID,omitempty"`
	ReceiverID    *string         `json:"receiverID,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	ReferenceType string          `json:"referenceType,omitempty"`
	ReferenceID   string          `json:"referenceID,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts a domain Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		Amount:        t.Amount,
		Fee:           t.Fee,
		NetAmount:     t.NetAmount,
		Type:          string(t.Type),
		Status:        string(t.Status),
		ReferenceType: string(t.ReferenceType),
		ReferenceID:   t.ReferenceID,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain Transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsParams holds pagination parameters for listing records.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of audit-trail records.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
