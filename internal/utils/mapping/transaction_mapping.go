package mapping

import (
	"github.com/malihub/mali_ledger/internal/core/domain"
	"github.com/malihub/mali_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		SenderID:      d.SenderID,
		ReceiverID:    d.ReceiverID,
		Amount:        d.Amount,
		Fee:           d.Fee,
		NetAmount:     d.NetAmount,
		Type:          string(d.Type),
		Status:        string(d.Status),
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		Note:          d.Note,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		SenderID:      m.SenderID,
		ReceiverID:    m.ReceiverID,
		Amount:        m.Amount,
		Fee:           m.Fee,
		NetAmount:     m.NetAmount,
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
