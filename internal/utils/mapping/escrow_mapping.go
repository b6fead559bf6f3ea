package mapping

import (
	"github.com/malihub/mali_ledger/internal/core/domain"
	"github.com/malihub/mali_ledger/internal/models"
)

// ToModelEscrow converts a domain Escrow to a model Escrow
func ToModelEscrow(d domain.Escrow) models.Escrow {
	return models.Escrow{
		EscrowID:      d.EscrowID,
		UserID:        d.UserID,
		Amount:        d.Amount,
		Status:        string(d.Status),
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		HeldAt:        d.HeldAt,
		ReleasedAt:    d.ReleasedAt,
		RefundedAt:    d.RefundedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEscrow converts a model Escrow to a domain Escrow
func ToDomainEscrow(m models.Escrow) domain.Escrow {
	return domain.Escrow{
		EscrowID:      m.EscrowID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Status:        domain.EscrowStatus(m.Status),
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		HeldAt:        m.HeldAt,
		ReleasedAt:    m.ReleasedAt,
		RefundedAt:    m.RefundedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
